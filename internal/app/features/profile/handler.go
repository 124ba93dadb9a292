// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// Handler serves the caller's own account record.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeProfile handles GET /api/auth/profile. The identity guard runs
// before this handler, so a missing identity is a wiring bug.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("identity missing from request context")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	user, err := h.Users.GetByID(ctx, id.Subject)
	if err != nil {
		switch {
		case errors.Is(err, userstore.ErrInvalidID), errors.Is(err, userstore.ErrNotFound):
			// The token was valid but the account is gone.
			httperr.Write(w, h.Log, httperr.NotFound("account not found"))
		default:
			httperr.Write(w, h.Log, httperr.Internal(err))
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(user)
}
