// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/ratelimit"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// Handler exchanges account credentials for a bearer token.
type Handler struct {
	Users      *userstore.Store
	AuthSecret string
	Limiter    *ratelimit.LoginLimiter
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, authSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		AuthSecret: authSecret,
		Limiter:    ratelimit.NewLoginLimiter(),
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
}

// ServeLogin handles POST /api/auth/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	if h.Limiter != nil && !h.Limiter.Check(r, req.Email) {
		httperr.Write(w, h.Log, httperr.TooManyRequests("too many login attempts"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	token, err := h.Users.Authenticate(ctx, req.Email, req.Password, h.AuthSecret)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			httperr.Write(w, h.Log, httperr.NotFound("no account for that email"))
		case errors.Is(err, userstore.ErrNoPassword):
			httperr.Write(w, h.Log, httperr.BadRequest("account has no password set"))
		case errors.Is(err, userstore.ErrAuthenticationFailed):
			httperr.Write(w, h.Log, httperr.Unauthorized("authentication failed"))
		default:
			httperr.Write(w, h.Log, httperr.Internal(err))
		}
		return
	}

	if h.Limiter != nil {
		h.Limiter.ResetEmail(req.Email)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(loginResponse{Token: token, Success: true})
}
