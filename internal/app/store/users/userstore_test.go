package userstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	userstore "github.com/docbaselabs/docbase/internal/app/store/users"
	"github.com/docbaselabs/docbase/internal/app/system/credentials"
	"github.com/docbaselabs/docbase/internal/app/system/indexes"
	"github.com/docbaselabs/docbase/internal/domain/models"
	"github.com/docbaselabs/docbase/internal/testutil"
)

const testSecret = "userstore-test-secret"

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, models.User{
		Username: "ada",
		Email:    "Ada@Example.com",
	}, "s3cret-pass")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		t.Fatalf("Create returned non-hex id %q", id)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Username != "ada" {
		t.Errorf("username: got %q, want %q", got.Username, "ada")
	}
	// Email is normalized to lower case on the way in.
	if got.Email != "ada@example.com" {
		t.Errorf("email: got %q, want %q", got.Email, "ada@example.com")
	}
	if got.PasswordHash != nil {
		t.Error("GetByID must not expose the credential hash")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{"empty password", "ada", "ada@example.com", "", userstore.ErrMissingPassword},
		{"short username", "ab", "ada@example.com", "pw-123456", userstore.ErrInvalidUsername},
		{"bad email", "ada", "not-an-email", "pw-123456", userstore.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := store.Create(ctx, models.User{Username: tc.username, Email: tc.email}, tc.password)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("got %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStore_Create_DuplicateIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := store.Create(ctx, models.User{Username: "ada", Email: "ada@example.com"}, "pw-123456"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	_, err := store.Create(ctx, models.User{Username: "ada", Email: "other@example.com"}, "pw-123456")
	if !errors.Is(err, userstore.ErrDuplicateIdentity) {
		t.Errorf("duplicate username: got %v, want ErrDuplicateIdentity", err)
	}

	_, err = store.Create(ctx, models.User{Username: "grace", Email: "ada@example.com"}, "pw-123456")
	if !errors.Is(err, userstore.ErrDuplicateIdentity) {
		t.Errorf("duplicate email: got %v, want ErrDuplicateIdentity", err)
	}
}

func TestStore_GetByID_Errors(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, "not-a-hex-id"); !errors.Is(err, userstore.ErrInvalidID) {
		t.Errorf("malformed id: got %v, want ErrInvalidID", err)
	}
	if _, err := store.GetByID(ctx, primitive.NewObjectID().Hex()); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("absent id: got %v, want ErrNotFound", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, models.User{Username: "ada", Email: "ada@example.com"}, "pw-123456")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	newEmail := "lovelace@example.com"
	if err := store.Update(ctx, id, userstore.Update{Email: &newEmail}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Email != newEmail {
		t.Errorf("email: got %q, want %q", got.Email, newEmail)
	}
	// Fields absent from the update are left alone.
	if got.Username != "ada" {
		t.Errorf("username changed unexpectedly: %q", got.Username)
	}

	if err := store.Update(ctx, primitive.NewObjectID().Hex(), userstore.Update{Email: &newEmail}); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("absent id: got %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, models.User{Username: "ada", Email: "ada@example.com"}, "pw-123456")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, id); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}

	// Deleting an absent user is not an error.
	if err := store.Delete(ctx, id); err != nil {
		t.Errorf("repeat Delete failed: %v", err)
	}
}

func TestStore_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, u := range []struct{ username, email string }{
		{"ada", "ada@example.com"},
		{"grace", "grace@example.com"},
		{"edsger", "edsger@example.com"},
	} {
		if _, err := store.Create(ctx, models.User{Username: u.username, Email: u.email}, "pw-123456"); err != nil {
			t.Fatalf("Create %s failed: %v", u.username, err)
		}
	}

	all, err := store.List(ctx, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 users, got %d", len(all))
	}
	for _, u := range all {
		if u.PasswordHash != nil {
			t.Errorf("List must not expose credential hashes (user %s)", u.Username)
		}
	}

	page, err := store.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("paged List failed: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("expected 1 user in page, got %d", len(page))
	}
}

func TestStore_Authenticate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := store.Create(ctx, models.User{Username: "ada", Email: "ada@example.com"}, "pw-123456")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	token, err := store.Authenticate(ctx, "ada@example.com", "pw-123456", testSecret)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	claims, err := credentials.VerifyToken(token, testSecret)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != id {
		t.Errorf("token subject: got %q, want %q", claims.Subject, id)
	}

	if _, err := store.Authenticate(ctx, "nobody@example.com", "pw-123456", testSecret); !errors.Is(err, userstore.ErrNotFound) {
		t.Errorf("unknown email: got %v, want ErrNotFound", err)
	}
	if _, err := store.Authenticate(ctx, "ada@example.com", "wrong-pass", testSecret); !errors.Is(err, userstore.ErrAuthenticationFailed) {
		t.Errorf("wrong password: got %v, want ErrAuthenticationFailed", err)
	}
}
