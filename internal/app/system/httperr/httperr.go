// internal/app/system/httperr/httperr.go
//
// Package httperr is the error-to-status contract exposed to the routing
// layer. Client-class failures carry a human-readable message and a 4xx
// status; everything else is written as an opaque 500 and logged with full
// detail.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind classifies a client-visible failure.
type Kind int

const (
	KindBadRequest Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooManyRequests
	KindInternal
)

// E is a classified error. Message is safe to show to the caller for
// client-class kinds; for KindInternal only the wrapped error is meaningful
// and it is never written to the response.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.Err }

// BadRequest is malformed or invalid caller input.
func BadRequest(msg string) *E { return &E{Kind: KindBadRequest, Message: msg} }

// Unauthorized is a failed or missing identity or membership check.
func Unauthorized(msg string) *E { return &E{Kind: KindUnauthorized, Message: msg} }

// NotFound is a missing entity addressed by id.
func NotFound(msg string) *E { return &E{Kind: KindNotFound, Message: msg} }

// Conflict is a duplicate-identity style uniqueness violation.
func Conflict(msg string) *E { return &E{Kind: KindConflict, Message: msg} }

// TooManyRequests is a throttled caller.
func TooManyRequests(msg string) *E { return &E{Kind: KindTooManyRequests, Message: msg} }

// Internal wraps a server-side failure. The wrapped error is logged, never
// surfaced.
func Internal(err error) *E { return &E{Kind: KindInternal, Message: "internal error", Err: err} }

func status(k Kind) int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

type body struct {
	Error string `json:"error"`
}

// Write renders err to the response. A classified client error becomes its
// mapped 4xx with the message in a JSON body; anything else (including
// KindInternal) becomes an opaque 500. Internal detail goes to the logger
// only.
func Write(w http.ResponseWriter, logger *zap.Logger, err error) {
	w.Header().Set("Content-Type", "application/json")

	var e *E
	if errors.As(err, &e) && e.Kind != KindInternal {
		w.WriteHeader(status(e.Kind))
		_ = json.NewEncoder(w).Encode(body{Error: e.Message})
		return
	}

	if logger != nil {
		logger.Error("request failed", zap.Error(err))
	}
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(body{Error: "internal server error"})
}
