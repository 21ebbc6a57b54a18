package model

import (
	"strings"
	"testing"
)

// TestTokenIsValid verifies the wire-shape check for tokens.
func TestTokenIsValid(t *testing.T) {
	t.Parallel()

	t.Run("well-formed token is valid", func(t *testing.T) {
		t.Parallel()
		tok := Token(strings.Repeat("a2", 16))
		if !tok.IsValid() {
			t.Errorf("expected %q to be valid", tok)
		}
	})

	t.Run("empty token is invalid", func(t *testing.T) {
		t.Parallel()
		if Token("").IsValid() {
			t.Error("expected empty token to be invalid")
		}
	})

	t.Run("wrong length is invalid", func(t *testing.T) {
		t.Parallel()
		if Token(strings.Repeat("a", 31)).IsValid() {
			t.Error("expected 31-character token to be invalid")
		}
		if Token(strings.Repeat("a", 33)).IsValid() {
			t.Error("expected 33-character token to be invalid")
		}
	})

	t.Run("characters outside the base32 alphabet are invalid", func(t *testing.T) {
		t.Parallel()
		// 0, 1, 8, 9 and uppercase are not part of the alphabet.
		for _, bad := range []string{"0", "1", "8", "9", "A", "/", "."} {
			tok := Token(bad + strings.Repeat("a", 31))
			if tok.IsValid() {
				t.Errorf("expected token containing %q to be invalid", bad)
			}
		}
	})
}
