package normalize_test

import (
	"testing"

	"github.com/docbaselabs/docbase/internal/app/system/normalize"
)

func TestEmail(t *testing.T) {
	cases := map[string]string{
		"Alice@Example.COM":  "alice@example.com",
		"  bob@example.com ": "bob@example.com",
		"carol@example.com":  "carol@example.com",
	}
	for in, want := range cases {
		if got := normalize.Email(in); got != want {
			t.Errorf("Email(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestUsername(t *testing.T) {
	if got := normalize.Username("  Alice "); got != "Alice" {
		t.Errorf("Username: got %q, want %q", got, "Alice")
	}
}

func TestName(t *testing.T) {
	if got := normalize.Name("  Ada   Lovelace  "); got != "Ada Lovelace" {
		t.Errorf("Name: got %q, want %q", got, "Ada Lovelace")
	}
}
