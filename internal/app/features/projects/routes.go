// internal/app/features/projects/routes.go
package projects

import "github.com/go-chi/chi/v5"

// InfoRoutes returns a subrouter for project reads, mounted under
// /projects/info. The identity guard is applied by the caller.
func InfoRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/list", h.ServeList)
	r.Get("/{project_id}", h.ServeInfo)
	return r
}

// EditRoutes returns a subrouter for project mutations, mounted under
// /projects/edit. The identity guard is applied by the caller.
func EditRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/new", h.ServeCreate)
	return r
}
