package profile_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/docbaselabs/docbase/internal/app/features/profile"
	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/auth"
	"github.com/docbaselabs/docbase/internal/testutil"
)

func TestServeProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := profile.NewHandler(userstore.New(db), zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "ada", "ada@example.com", "pw-123456")

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req = auth.WithIdentity(req, auth.Identity{Subject: user.ID.Hex()})
	rec := httptest.NewRecorder()

	h.ServeProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["username"] != "ada" {
		t.Errorf("username: got %v, want ada", resp["username"])
	}
	if _, ok := resp["password"]; ok {
		t.Error("profile response must not carry the credential hash")
	}
}

func TestServeProfile_AccountGone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(userstore.New(db), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req = auth.WithIdentity(req, auth.Identity{Subject: primitive.NewObjectID().Hex()})
	rec := testutil.NewRecorder()

	h.ServeProfile(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "account not found")
}

func TestServeProfile_NoIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := profile.NewHandler(userstore.New(db), zap.NewNop())

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	rec := testutil.NewRecorder()

	h.ServeProfile(rec, req)

	// Reaching the handler without the guard is a server bug, not a client error.
	rec.AssertStatus(t, http.StatusInternalServerError)
}
