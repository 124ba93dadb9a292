// internal/app/features/projectdocs/handler.go
package projectdocs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/docbaselabs/docbase/internal/app/store/tenantdocs"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
	"github.com/docbaselabs/docbase/internal/app/system/projectauth"
	"github.com/docbaselabs/docbase/internal/app/system/timeouts"
)

// CollectionParam is the chi route parameter carrying the target
// collection name.
const CollectionParam = "collection_name"

// DocumentParam is the chi route parameter carrying the target document id.
const DocumentParam = "document_id"

// Handler proxies document operations into the caller's project namespace.
// The project guard runs before every endpoint, so the project identity in
// the request context is the sole source of the tenant id.
type Handler struct {
	Docs *tenantdocs.Store
	Log  *zap.Logger
}

func NewHandler(docs *tenantdocs.Store, logger *zap.Logger) *Handler {
	return &Handler{Docs: docs, Log: logger}
}

// tenant resolves the tenant id from the guarded request context.
func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	pi, ok := projectauth.From(r)
	if !ok {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("project identity missing from request context")))
		return "", false
	}
	return pi.Project.ID.Hex(), true
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, CollectionParam)
	if name == "" {
		httperr.Write(w, h.Log, httperr.Internal(errors.New("collection_name route parameter missing")))
		return "", false
	}
	return name, true
}

// decodeBody parses an optional JSON body. An empty body leaves v as-is.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

/* ------------------------------ collections ------------------------------ */

// ServeListCollections handles GET /collections.
func (h *Handler) ServeListCollections(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	names, err := h.Docs.ListCollections(ctx, tenantID)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, names)
}

type createCollectionRequest struct {
	Options *tenantdocs.CreateCollectionOptions `json:"options"`
}

// ServeCreateCollection handles POST /collections/{collection_name}/create.
func (h *Handler) ServeCreateCollection(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req createCollectionRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Docs.CreateCollection(ctx, tenantID, name, req.Options); err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// ServeDropCollection handles POST /collections/{collection_name}/drop.
func (h *Handler) ServeDropCollection(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Docs.DropCollection(ctx, tenantID, name); err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

/* ------------------------------- documents ------------------------------- */

type findRequest struct {
	Filter  bson.M                   `json:"filter"`
	Options *tenantdocs.QueryOptions `json:"options"`
}

// ServeFind handles POST /collections/{collection_name}/documents.
func (h *Handler) ServeFind(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req findRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	docs, err := h.Docs.Find(ctx, tenantID, name, req.Filter, req.Options)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, docs)
}

type insertRequest struct {
	Document bson.M `json:"document"`
}

// ServeInsert handles POST /collections/{collection_name}/documents/create.
func (h *Handler) ServeInsert(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req insertRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}
	if req.Document == nil {
		httperr.Write(w, h.Log, httperr.BadRequest("document is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Docs.Insert(ctx, tenantID, name, req.Document)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, res)
}

type updateRequest struct {
	Filter  bson.M                    `json:"filter"`
	Update  bson.M                    `json:"update"`
	Options *tenantdocs.UpdateOptions `json:"options"`
}

// ServeUpdateMany handles POST /collections/{collection_name}/documents/update.
func (h *Handler) ServeUpdateMany(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}
	if req.Update == nil {
		httperr.Write(w, h.Log, httperr.BadRequest("update is required"))
		return
	}
	if req.Filter == nil {
		req.Filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Docs.UpdateMany(ctx, tenantID, name, req.Filter, req.Update, req.Options)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, res)
}

type deleteRequest struct {
	Filter bson.M `json:"filter"`
}

// ServeDeleteMany handles POST /collections/{collection_name}/documents/delete.
func (h *Handler) ServeDeleteMany(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}

	var req deleteRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}
	if req.Filter == nil {
		req.Filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Docs.DeleteMany(ctx, tenantID, name, req.Filter)
	if err != nil {
		httperr.Write(w, h.Log, httperr.Internal(err))
		return
	}
	writeJSON(w, res)
}

/* ----------------------------- by-id documents ---------------------------- */

type findOneRequest struct {
	Options *tenantdocs.QueryOptions `json:"options"`
}

// ServeGetByID handles POST /collections/{collection_name}/documents/{document_id}/get.
func (h *Handler) ServeGetByID(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, DocumentParam)

	var req findOneRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Docs.FindOne(ctx, tenantID, name, docID, req.Options)
	if err != nil {
		h.writeDocErr(w, err)
		return
	}
	if doc == nil {
		httperr.Write(w, h.Log, httperr.NotFound("document not found"))
		return
	}
	writeJSON(w, doc)
}

type updateByIDRequest struct {
	Update  bson.M                    `json:"update"`
	Options *tenantdocs.UpdateOptions `json:"options"`
}

// ServeUpdateByID handles POST /collections/{collection_name}/documents/{document_id}/update.
func (h *Handler) ServeUpdateByID(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, DocumentParam)

	var req updateByIDRequest
	if err := decodeBody(r, &req); err != nil {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid request body"))
		return
	}
	if req.Update == nil {
		httperr.Write(w, h.Log, httperr.BadRequest("update is required"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Docs.UpdateByID(ctx, tenantID, name, docID, req.Update, req.Options)
	if err != nil {
		h.writeDocErr(w, err)
		return
	}
	writeJSON(w, res)
}

// ServeDeleteByID handles POST /collections/{collection_name}/documents/{document_id}/delete.
func (h *Handler) ServeDeleteByID(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := h.tenant(w, r)
	if !ok {
		return
	}
	name, ok := h.collection(w, r)
	if !ok {
		return
	}
	docID := chi.URLParam(r, DocumentParam)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	res, err := h.Docs.DeleteByID(ctx, tenantID, name, docID)
	if err != nil {
		h.writeDocErr(w, err)
		return
	}
	writeJSON(w, res)
}

func (h *Handler) writeDocErr(w http.ResponseWriter, err error) {
	if errors.Is(err, tenantdocs.ErrInvalidID) {
		httperr.Write(w, h.Log, httperr.BadRequest("invalid document id"))
		return
	}
	httperr.Write(w, h.Log, httperr.Internal(err))
}
