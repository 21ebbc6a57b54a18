package model

// Coordinate is a pseudo-fractal display coordinate attached to a page.
//
// The real/imaginary parts always lie inside a fixed bounding box around a
// configured base point, and Zoom grows with the folded depth only, so the
// values never diverge no matter how deep a crawler nominally goes. The
// coordinates are illustrative set dressing for the rendered pages; nothing
// computes with them.
type Coordinate struct {
	// Real is the real component of the coordinate.
	Real float64 `json:"real"`

	// Imag is the imaginary component of the coordinate.
	Imag float64 `json:"imag"`

	// Zoom is the display zoom level, a non-decreasing function of the
	// folded depth.
	Zoom int `json:"zoom"`
}
