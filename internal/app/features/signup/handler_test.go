package signup_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docbaselabs/docbase/internal/app/features/signup"
	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/indexes"
	"github.com/docbaselabs/docbase/internal/testutil"
)

func newHandler(t *testing.T) *signup.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	return signup.NewHandler(userstore.New(db), zap.NewNop())
}

func post(h *signup.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/auth/signup", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeSignup(rec, req)
	return rec
}

func TestServeSignup(t *testing.T) {
	h := newHandler(t)

	rec := post(h, `{"username":"ada","email":"ada@example.com","password":"pw-123456"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID == "" {
		t.Error("expected a generated _id")
	}
}

func TestServeSignup_InvalidBody(t *testing.T) {
	h := newHandler(t)

	rec := post(h, `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestServeSignup_MissingPassword(t *testing.T) {
	h := newHandler(t)

	rec := post(h, `{"username":"ada","email":"ada@example.com"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestServeSignup_DuplicateIdentity(t *testing.T) {
	h := newHandler(t)

	first := post(h, `{"username":"ada","email":"ada@example.com","password":"pw-123456"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("first signup failed: %d %s", first.Code, first.Body.String())
	}

	dup := post(h, `{"username":"ada","email":"other@example.com","password":"pw-123456"}`)
	if dup.Code != http.StatusConflict {
		t.Errorf("duplicate username: got %d, want 409", dup.Code)
	}
}
