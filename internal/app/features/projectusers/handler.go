// internal/app/features/projectusers/handler.go
package projectusers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	projectuserstore "github.com/docbaselabs/docbase/internal/app/store/projectusers"
	"github.com/docbaselabs/docbase/internal/app/store/tenantdocs"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/projectauth"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// Handler serves the tenant-local user directory. The project guard runs
// before it.
type Handler struct {
	Users *projectuserstore.Store
	Log   *zap.Logger
}

func NewHandler(users *projectuserstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

type listRequest struct {
	Filter  bson.M                   `json:"filter"`
	Options *tenantdocs.QueryOptions `json:"options"`
}

// ServeList handles POST /api/projects/{project_id}/auth/users/get.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	pi, ok := projectauth.From(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("project identity missing from request context")))
		return
	}

	var req listRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, err := h.Users.List(ctx, pi.Project.ID.Hex(), req.Filter, req.Options)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(users)
}
