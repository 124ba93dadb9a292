// internal/app/features/projectusers/routes.go
package projectusers

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the tenant-local user directory. The
// project guard is applied by the caller; this is mounted under
// /projects/{project_id}/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/users/get", h.ServeList)
	return r
}
