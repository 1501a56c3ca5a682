package detector

import "github.com/cruiser-KPI/hand-recognition/images"

// GeometryFilter rejects candidates that are too small or too far from square
// to be a hand.
type GeometryFilter struct {
	// MinDim is the smallest accepted width and height.
	MinDim int
	// MaxScale bounds the aspect ratio to [1/MaxScale, MaxScale].
	MaxScale float64
}

// Accept reports whether r passes the size and aspect checks. Both bounds are inclusive.
func (g GeometryFilter) Accept(r images.Rect) bool {
	if r.Empty() || r.Width < g.MinDim || r.Height < g.MinDim {
		return false
	}
	aspect := r.Aspect()
	return aspect >= 1/g.MaxScale && aspect <= g.MaxScale
}
