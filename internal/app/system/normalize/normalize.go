// internal/app/system/normalize/normalize.go
// Package normalize canonicalizes user-entered identity fields before they
// are matched or stored.
package normalize

import "strings"

// Email lowercases and trims an email address so lookups and the unique
// index treat addresses case-insensitively.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username trims surrounding whitespace. Usernames stay case-sensitive.
func Username(s string) string {
	return strings.TrimSpace(s)
}

// Name collapses internal runs of whitespace and trims the ends.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
