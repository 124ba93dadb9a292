// internal/app/system/auth/auth.go
//
// Package auth is the identity guard: it turns a request's Authorization
// header into a verified identity, or a classified failure. The guard is a
// pure function of (header value, shared secret) with no I/O, so it is safe
// to run on every request concurrently.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/docbaselabs/docbase/internal/app/system/credentials"
	"github.com/docbaselabs/docbase/internal/app/system/httperr"
)

// HeaderName is the request header the guard reads.
const HeaderName = "Authorization"

var (
	// ErrMissingHeader means no Authorization header was sent.
	ErrMissingHeader = errors.New("missing authorization header")
	// ErrMalformedHeader means the header is not exactly "<scheme> <token>".
	ErrMalformedHeader = errors.New("malformed authorization header")
	// ErrInvalidToken means the bearer token failed verification.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Identity is a verified identity: the raw header value it was derived from
// plus the token's subject (the user record's hex id). Request-scoped.
type Identity struct {
	Token   string
	Subject string
}

// FromHeader validates a raw Authorization header value against the shared
// secret.
//
//   - empty header           → ErrMissingHeader
//   - not exactly two fields → ErrMalformedHeader
//   - failed verification    → ErrInvalidToken (expired tokens included;
//     policy treats both as unauthorized)
func FromHeader(header, secret string) (Identity, error) {
	if header == "" {
		return Identity{}, ErrMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 {
		return Identity{}, ErrMalformedHeader
	}
	claims, err := credentials.VerifyToken(parts[1], secret)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Token: header, Subject: claims.Subject}, nil
}

type ctxKey string

const identityKey ctxKey = "identity"

// IdentityFrom returns the verified identity set by RequireBearer.
func IdentityFrom(r *http.Request) (Identity, bool) {
	id, ok := r.Context().Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity injects an identity into the request context. Used by the
// middleware and by handler tests that bypass it.
func WithIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

// WriteError maps a guard failure to its HTTP response: a malformed header
// is the caller's mistake (400); a missing or unverifiable token is 401.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMalformedHeader):
		httperr.Write(w, nil, httperr.BadRequest(err.Error()))
	default:
		httperr.Write(w, nil, httperr.Unauthorized(err.Error()))
	}
}

// RequireBearer guards a route subtree with the identity check. On success
// the verified identity is available via IdentityFrom; on failure the
// request is terminated and never reaches the handler.
func RequireBearer(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := FromHeader(r.Header.Get(HeaderName), secret)
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, WithIdentity(r, ident))
		})
	}
}
