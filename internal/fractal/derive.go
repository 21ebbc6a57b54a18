package fractal

import (
	"strconv"

	"github.com/nao1215/tsukuyomi/internal/model"
)

// rootSeed is the fixed value used in place of a parent token when deriving
// root-level tokens. The secret salt still feeds the digest, so knowing the
// seed does not let a crawler predict any token.
const rootSeed = "tsukuyomi.root"

// Deriver builds canonical page tokens from their generating inputs.
//
// Derivation is a pure function: identical inputs always yield an identical
// token. This is what makes the trap internally consistent — a crawler that
// re-requests a URL gets a stable page rather than a new random one.
type Deriver struct {
	// salt is the configured secret mixed into every derivation.
	// Without it a crawler that guessed the scheme could precompute the
	// whole graph offline.
	salt string
}

// NewDeriver creates a Deriver with the given secret salt.
func NewDeriver(salt string) *Deriver {
	return &Deriver{salt: salt}
}

// Derive computes the token of the child at the given branch index and depth
// under the given parent token.
//
// Negative index or depth indicates a caller bug; both are clamped to zero so
// that a single malformed request can never take the service down. Tests
// cover the clamped behavior explicitly.
func (d *Deriver) Derive(parent model.Token, index, depth int) model.Token {
	if index < 0 {
		index = 0
	}
	if depth < 0 {
		depth = 0
	}
	material := string(parent) + ":" + d.salt + ":" + strconv.Itoa(index) + ":" + strconv.Itoa(depth)
	return encodeToken(Digest(material))
}

// Root derives a root-level token from arbitrary material, using the fixed
// seed in place of a parent token.
//
// The serving layer calls this with "/" for the front page and with the raw
// request path for anything that fails resolution: a malformed path is never
// an error, it is simply a fresh root, so the trap never teaches a crawler
// that a boundary exists.
func (d *Deriver) Root(material string) model.Token {
	if material == "" {
		material = "/"
	}
	return encodeToken(Digest(rootSeed + ":" + d.salt + ":" + material))
}
