// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter that serves account management endpoints.
// The identity guard is applied by the caller before mounting.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList) // mounted under /auth/users
	r.Get("/{user_id}", h.ServeGet)
	r.Put("/{user_id}", h.ServeUpdate)
	r.Delete("/{user_id}", h.ServeDelete)
	return r
}
