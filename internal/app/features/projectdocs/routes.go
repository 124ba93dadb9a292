// internal/app/features/projectdocs/routes.go
package projectdocs

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the document proxy. The project guard is
// applied by the caller before mounting; this is mounted under
// /projects/{project_id}/mongodb.
//
// Mutating operations are POST with JSON bodies carrying filter, update,
// document, and options fields.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/collections", h.ServeListCollections)
	r.Post("/collections/{collection_name}/create", h.ServeCreateCollection)
	r.Post("/collections/{collection_name}/drop", h.ServeDropCollection)

	r.Post("/collections/{collection_name}/documents", h.ServeFind)
	r.Post("/collections/{collection_name}/documents/create", h.ServeInsert)
	r.Post("/collections/{collection_name}/documents/update", h.ServeUpdateMany)
	r.Post("/collections/{collection_name}/documents/delete", h.ServeDeleteMany)

	r.Post("/collections/{collection_name}/documents/{document_id}/get", h.ServeGetByID)
	r.Post("/collections/{collection_name}/documents/{document_id}/update", h.ServeUpdateByID)
	r.Post("/collections/{collection_name}/documents/{document_id}/delete", h.ServeDeleteByID)

	return r
}
