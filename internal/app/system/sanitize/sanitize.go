// internal/app/system/sanitize/sanitize.go
// Package sanitize strips markup from user-supplied display text (names,
// project titles) before it is persisted.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	policy *bluemonday.Policy
)

// Text removes all HTML from s and returns the plain text. bluemonday
// entity-escapes its output, so the result is unescaped back to plain
// characters for storage.
func Text(s string) string {
	once.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return html.UnescapeString(policy.Sanitize(s))
}
