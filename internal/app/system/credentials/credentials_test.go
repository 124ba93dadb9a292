package credentials_test

import (
	"errors"
	"testing"
	"time"

	"github.com/docbaselabs/docbase/internal/app/system/credentials"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := credentials.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	ok, err := credentials.VerifyPassword("secret123", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("expected matching password to verify")
	}
}

func TestVerifyPassword_Mismatch(t *testing.T) {
	hash, err := credentials.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	ok, err := credentials.VerifyPassword("wrong-password", hash)
	if err != nil {
		t.Fatalf("mismatch must not be an error, got: %v", err)
	}
	if ok {
		t.Error("expected mismatched password to fail verification")
	}
}

func TestVerifyPassword_CorruptHash(t *testing.T) {
	ok, err := credentials.VerifyPassword("secret123", "not-a-bcrypt-hash")
	if ok {
		t.Error("corrupt hash must never verify")
	}
	if !errors.Is(err, credentials.ErrCorruptHash) {
		t.Errorf("expected ErrCorruptHash, got %v", err)
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := credentials.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := credentials.HashPassword("secret123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (salted)")
	}
}

func TestIssueAndVerifyToken(t *testing.T) {
	token, err := credentials.IssueToken("user-123", "top-secret", time.Now())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	claims, err := credentials.VerifyToken(token, "top-secret")
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Errorf("subject: got %q, want %q", claims.Subject, "user-123")
	}
	ttl := time.Until(claims.ExpiresAt)
	if ttl < 47*time.Hour || ttl > 49*time.Hour {
		t.Errorf("expiry should be ~48h out, got %v", ttl)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	token, err := credentials.IssueToken("user-123", "secret-a", time.Now())
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = credentials.VerifyToken(token, "secret-b")
	if !errors.Is(err, credentials.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-(credentials.TokenTTL + time.Hour))
	token, err := credentials.IssueToken("user-123", "top-secret", issuedAt)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	_, err = credentials.VerifyToken(token, "top-secret")
	if !errors.Is(err, credentials.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyToken_Garbage(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c", "Bearer xyz"} {
		if _, err := credentials.VerifyToken(tok, "top-secret"); !errors.Is(err, credentials.ErrTokenInvalid) {
			t.Errorf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}
