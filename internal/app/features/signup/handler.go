// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
	"github.com/docbaselabs/docbase/internal/domain/models"
)

// Handler registers new accounts.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// signupRequest is the JSON body for account registration. The password
// travels only in this request; it is stored as a hash and never returned.
type signupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type signupResponse struct {
	ID string `json:"_id"`
}

// ServeSignup handles POST /api/auth/signup.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id, err := h.Users.Create(ctx, models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}, req.Password)
	if err != nil {
		httperr.Write(w, h.Log, mapCreateErr(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(signupResponse{ID: id})
}

func mapCreateErr(err error) error {
	switch {
	case errors.Is(err, userstore.ErrMissingPassword),
		errors.Is(err, userstore.ErrInvalidUsername),
		errors.Is(err, userstore.ErrInvalidEmail):
		return httperr.BadRequest(err.Error())
	case errors.Is(err, userstore.ErrDuplicateIdentity):
		return httperr.Conflict("username or email already taken")
	default:
		return httperr.Internal(err)
	}
}
