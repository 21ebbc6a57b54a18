package model

import "regexp"

// TokenLength is the length of an encoded token in characters.
// Tokens are base32-encoded (lowercase, no padding) digests of 20 bytes,
// which always encode to exactly 32 characters.
const TokenLength = 32

// tokenPattern matches a well-formed token: 32 characters of the lowercase
// base32 alphabet. The alphabet mirrors v3 onion addresses, which keeps trap
// URLs looking like the opaque identifiers crawlers encounter in the wild.
var tokenPattern = regexp.MustCompile(`^[a-z2-7]{32}$`)

// Token is an opaque, URL-safe identifier for a generated page.
//
// A token is the output of a one-way digest applied to its generating inputs
// (parent token, salt, branch index, depth). It is unique-looking but never
// checked for uniqueness; collisions are astronomically unlikely. Tokens are
// never stored in bulk because they are reproducible on demand from the same
// inputs.
type Token string

// String returns the token as a plain string.
func (t Token) String() string {
	return string(t)
}

// IsValid reports whether the token has the well-formed wire shape.
// It says nothing about whether the token was ever issued by this process;
// derivation is one-way, so any well-formed token is treated as genuine.
func (t Token) IsValid() bool {
	return tokenPattern.MatchString(string(t))
}
