package fractal

import "github.com/nao1215/tsukuyomi/internal/model"

// Expander produces the fixed-size set of child tokens for a page.
type Expander struct {
	// deriver performs the underlying token derivation.
	deriver *Deriver

	// branching is the number of children generated per page.
	branching int
}

// NewExpander creates an Expander with the given branching factor.
// A branching factor below 1 is clamped to 1: a page with no outgoing links
// would hand the crawler a boundary, which the trap must never do.
func NewExpander(deriver *Deriver, branching int) *Expander {
	if branching < 1 {
		branching = 1
	}
	return &Expander{
		deriver:   deriver,
		branching: branching,
	}
}

// Branching returns the configured branching factor.
func (e *Expander) Branching() int {
	return e.branching
}

// Expand returns the page's child tokens, derived from the token and its
// effective depth.
//
// The result is deterministic and order-preserving: the same index always
// produces the same child in the same position. A crawler that revisits a
// page mid-traversal sees exactly the same outgoing links as before, which
// preserves the illusion of a real, stable site. Work is O(branching)
// regardless of depth, so no request can be made expensive by crafting a
// deep path.
func (e *Expander) Expand(token model.Token, effectiveDepth int) []model.Token {
	children := make([]model.Token, e.branching)
	for i := range children {
		children[i] = e.deriver.Derive(token, i, effectiveDepth)
	}
	return children
}
