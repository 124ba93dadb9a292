// internal/app/features/projects/handler.go
package projects

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	projectstore "github.com/docbaselabs/docbase/internal/app/store/projects"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/projectauth"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// Handler serves project metadata and creation. All endpoints run behind
// the identity guard; record-level reads additionally verify membership.
type Handler struct {
	Projects *projectstore.Store
	Log      *zap.Logger
}

func NewHandler(projects *projectstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Projects: projects, Log: logger}
}

// ServeList handles GET /api/projects/info/list: every project the caller
// is a member of.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("identity missing from request context")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projects, err := h.Projects.ListForUser(ctx, id.Subject)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(projects)
}

// ServeInfo handles GET /api/projects/info/{project_id}. Non-members get
// the same answer as for an absent project.
func (h *Handler) ServeInfo(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("identity missing from request context")))
		return
	}
	projectID := chi.URLParam(r, projectauth.URLParam)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, err := h.Projects.LookupMembership(ctx, projectID, id.Subject)
	if err != nil {
		if errors.Is(err, projectstore.ErrInvalidID) {
			httperr.Write(w, h.Log, httperr.BadRequest("invalid project id"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	if project == nil {
		httperr.Write(w, h.Log, httperr.Unauthorized("no project access"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(project)
}

type createRequest struct {
	Name string `json:"name"`
}

type createResponse struct {
	ID string `json:"_id"`
}

// ServeCreate handles POST /api/projects/edit/new. The caller becomes the
// sole initial member.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("identity missing from request context")))
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	projectID, err := h.Projects.Create(ctx, req.Name, id.Subject)
	if err != nil {
		if errors.Is(err, projectstore.ErrMissingName) {
			httperr.Write(w, h.Log, httperr.BadRequest("project name is required"))
			return
		}
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(createResponse{ID: projectID})
}
