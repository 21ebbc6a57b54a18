package fractal

import "github.com/nao1215/tsukuyomi/internal/model"

// Base coordinate constants. The base point is a well-known deep-zoom
// location on the Mandelbrot set boundary; pages claim to explore its
// neighborhood. The values are display dressing only — nothing computes with
// them.
const (
	// BaseReal is the real component of the base point.
	BaseReal = -0.743643887037151

	// BaseImag is the imaginary component of the base point.
	BaseImag = 0.131825904205330

	// Window is the half-width of the fixed bounding box around the base
	// point. Coordinates never leave [base-Window, base+Window].
	Window = 0.05

	// zoomStep is the number of effective-depth levels per zoom doubling.
	zoomStep = 10

	// maxZoomShift caps the zoom exponent. Effective depth is already
	// bounded by the fold, so this is a guard against shift overflow if a
	// caller ever passes an unfolded depth.
	maxZoomShift = 40
)

// Synthesizer maps a token/effective-depth pair to a bounded display
// coordinate and zoom level.
type Synthesizer struct {
	baseReal float64
	baseImag float64
	window   float64
}

// NewSynthesizer creates a Synthesizer around the default base point.
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{
		baseReal: BaseReal,
		baseImag: BaseImag,
		window:   Window,
	}
}

// Locate computes the display coordinate for a page.
//
// Zoom is 2^(effectiveDepth/zoomStep), bounded because effective depth is
// bounded by the fold. The offset from the base point is derived from the
// token digest and shrinks with zoom, then is clamped to the window, so the
// output never diverges numerically regardless of how deep a crawler has
// nominally gone.
func (s *Synthesizer) Locate(token model.Token, effectiveDepth int) model.Coordinate {
	if effectiveDepth < 0 {
		effectiveDepth = 0
	}
	shift := effectiveDepth / zoomStep
	if shift > maxZoomShift {
		shift = maxZoomShift
	}
	zoom := 1 << shift

	scale := 1.0 / (1000.0 * float64(zoom))
	fx := fraction(Digest(string(token) + ":x"))
	fy := fraction(Digest(string(token) + ":y"))

	return model.Coordinate{
		Real: s.clamp(s.baseReal, (fx-0.5)*scale),
		Imag: s.clamp(s.baseImag, (fy-0.5)*scale),
		Zoom: zoom,
	}
}

// clamp applies an offset to a base value and confines the result to the
// fixed window around the base.
func (s *Synthesizer) clamp(base, offset float64) float64 {
	v := base + offset
	if v < base-s.window {
		return base - s.window
	}
	if v > base+s.window {
		return base + s.window
	}
	return v
}
