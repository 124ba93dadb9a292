package projectdocs_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/docbaselabs/docbase/internal/app/features/projectdocs"
	"github.com/docbaselabs/docbase/internal/app/store/tenantdocs"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/app/system/projectauth"
	"github.com/docbaselabs/docbase/internal/domain/models"
	"github.com/docbaselabs/docbase/internal/testutil"
)

// newRouter mounts the proxy routes behind a stub guard that injects a
// fixed project identity, the way the real guard does after a successful
// membership lookup.
func newRouter(t *testing.T) (chi.Router, *mongo.Client, models.Project) {
	t.Helper()

	client, _ := testutil.SetupTestClient(t)
	project := models.Project{ID: primitive.NewObjectID(), Name: "Test", Users: []string{"user-1"}}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(tenantdocs.Namespace(project.ID.Hex())).Drop(ctx)
	})

	h := projectdocs.NewHandler(tenantdocs.New(client), zap.NewNop())

	r := chi.NewRouter()
	r.Route("/projects/{project_id}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				pi := projectauth.ProjectIdentity{
					Identity: auth.Identity{Subject: "user-1"},
					Project:  project,
				}
				next.ServeHTTP(w, projectauth.With(req, pi))
			})
		})
		r.Mount("/mongodb", projectdocs.Routes(h))
	})
	return r, client, project
}

func do(r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCollectionLifecycle(t *testing.T) {
	r, _, p := newRouter(t)
	base := "/projects/" + p.ID.Hex() + "/mongodb"

	rec := do(r, "POST", base+"/collections/readings/create", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("create collection: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, "GET", base+"/collections", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list collections: %d %s", rec.Code, rec.Body.String())
	}
	var names []string
	if err := json.Unmarshal(rec.Body.Bytes(), &names); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(names) != 1 || names[0] != "readings" {
		t.Errorf("collections: got %v, want [readings]", names)
	}

	rec = do(r, "POST", base+"/collections/readings/drop", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("drop collection: %d %s", rec.Code, rec.Body.String())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	r, _, p := newRouter(t)
	base := "/projects/" + p.ID.Hex() + "/mongodb/collections/readings/documents"

	rec := do(r, "POST", base+"/create", `{"document":{"city":"Kyoto","temp":21}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("insert: %d %s", rec.Code, rec.Body.String())
	}
	var ins struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ins); err != nil {
		t.Fatalf("failed to parse insert response: %v", err)
	}
	if ins.ID == "" {
		t.Fatal("expected a generated _id")
	}

	rec = do(r, "POST", base, `{"filter":{"city":"Kyoto"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("find: %d %s", rec.Code, rec.Body.String())
	}
	var docs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatalf("failed to parse find response: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}

	rec = do(r, "POST", base+"/"+ins.ID+"/update", `{"update":{"temp":25}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update by id: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, "POST", base+"/"+ins.ID+"/get", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get by id: %d %s", rec.Code, rec.Body.String())
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("failed to parse get response: %v", err)
	}
	if doc["temp"] != float64(25) {
		t.Errorf("temp after update: got %v, want 25", doc["temp"])
	}
	if doc["city"] != "Kyoto" {
		t.Errorf("untouched field lost: %v", doc["city"])
	}

	rec = do(r, "POST", base+"/"+ins.ID+"/delete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete by id: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(r, "POST", base+"/"+ins.ID+"/get", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: got %d, want 404", rec.Code)
	}
}

func TestDocument_BadID(t *testing.T) {
	r, _, p := newRouter(t)
	base := "/projects/" + p.ID.Hex() + "/mongodb/collections/readings/documents"

	rec := do(r, "POST", base+"/not-an-oid/get", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("get with bad id: got %d, want 400", rec.Code)
	}

	rec = do(r, "POST", base+"/not-an-oid/delete", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("delete with bad id: got %d, want 400", rec.Code)
	}
}

func TestUpdate_RequiresUpdateDocument(t *testing.T) {
	r, _, p := newRouter(t)
	base := "/projects/" + p.ID.Hex() + "/mongodb/collections/readings/documents"

	rec := do(r, "POST", base+"/update", `{"filter":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("update without update doc: got %d, want 400", rec.Code)
	}
}
