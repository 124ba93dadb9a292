// internal/app/system/credentials/credentials.go
//
// Package credentials is the credential codec: it hashes and verifies
// passwords (bcrypt) and issues and verifies signed identity tokens
// (HMAC-SHA256 JWTs). It performs no I/O and holds no mutable state beyond
// the configured bcrypt cost.
package credentials

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the fixed lifetime of an issued identity token.
const TokenTTL = 48 * time.Hour

var (
	// ErrHashFailure indicates an internal failure while hashing a password.
	ErrHashFailure = errors.New("password hashing failed")
	// ErrCorruptHash indicates a stored hash that is not a valid bcrypt string.
	ErrCorruptHash = errors.New("stored password hash is corrupt")
	// ErrTokenInvalid indicates a token with a bad signature or garbage format.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired indicates a structurally valid token past its expiry.
	ErrTokenExpired = errors.New("token is expired")
)

// Claims is the verified payload of an identity token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

var (
	costMu sync.RWMutex
	cost   = bcrypt.DefaultCost
)

// Configure sets the bcrypt work factor. Values outside bcrypt's accepted
// range are ignored, keeping the current cost. Called once at startup.
func Configure(workFactor int) {
	if workFactor < bcrypt.MinCost || workFactor > bcrypt.MaxCost {
		return
	}
	costMu.Lock()
	cost = workFactor
	costMu.Unlock()
}

func workFactor() int {
	costMu.RLock()
	defer costMu.RUnlock()
	return cost
}

// HashPassword produces a salted bcrypt hash of the password using the
// configured work factor. The returned string is self-describing (the cost
// is embedded) and safe to store as an opaque field.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), workFactor())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashFailure, err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A mismatch is (false, nil); only a structurally invalid stored hash
// produces an error.
func VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
	}
}

// IssueToken signs an HS256 token for the subject, expiring TokenTTL after
// issuedAt. The issue time is a parameter so expiry can be exercised in
// tests without a real clock.
func IssueToken(subject, secret string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates signature and expiry and returns the claims.
// Expired tokens fail with ErrTokenExpired; anything else wrong with the
// token (bad signature, wrong algorithm, garbage) fails with ErrTokenInvalid
// so callers can map the two distinctly.
func VerifyToken(token, secret string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return []byte(secret), nil
		})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	reg, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || strings.TrimSpace(reg.Subject) == "" || reg.ExpiresAt == nil {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{Subject: reg.Subject, ExpiresAt: reg.ExpiresAt.Time}, nil
}
