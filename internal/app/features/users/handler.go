// internal/app/features/users/handler.go
package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// URLParam is the chi route parameter carrying the target user id.
const URLParam = "user_id"

const defaultListLimit = 50

// Handler manages platform accounts. Record-level operations are
// self-service only: the authenticated subject must match the path id.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// requireSelf resolves the path id and enforces that the caller is
// operating on their own record. Acting on another account is rejected as
// unauthorized, not as not-found, so ids are not probeable.
func (h *Handler) requireSelf(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := auth.IdentityFrom(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("identity missing from request context")))
		return "", false
	}
	userID := chi.URLParam(r, URLParam)
	if userID == "" {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("user_id route parameter missing")))
		return "", false
	}
	if userID != id.Subject {
		httperr.Write(w, h.Log, httperr.Unauthorized("cannot act on another account"))
		return "", false
	}
	return userID, true
}

// ServeGet handles GET /api/auth/users/{user_id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.writeStoreErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}

// updateRequest carries the updatable account fields. Absent fields are
// left unchanged.
type updateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// ServeUpdate handles PUT /api/auth/users/{user_id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.Update(ctx, userID, userstore.Update{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateIdentity) {
			httperr.Write(w, h.Log, httperr.Conflict("username or email already taken"))
			return
		}
		h.writeStoreErr(w, err)
		return
	}

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.writeStoreErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}

// ServeDelete handles DELETE /api/auth/users/{user_id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireSelf(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.Delete(ctx, userID); err != nil {
		h.writeStoreErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// ServeList handles GET /api/auth/users?skip=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	skip := parseInt64(r.URL.Query().Get("skip"), 0)
	limit := parseInt64(r.URL.Query().Get("limit"), defaultListLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, skip, limit)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(users)
}

func (h *Handler) writeStoreErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userstore.ErrInvalidID):
		httperr.Write(w, h.Log, httperr.BadRequest("invalid user id"))
	case errors.Is(err, userstore.ErrNotFound):
		httperr.Write(w, h.Log, httperr.NotFound("user not found"))
	default:
		httperr.Write(w, h.Log, httperr.Internal(err))
	}
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
