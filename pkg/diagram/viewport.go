package diagram

// Viewport is the size of the drawing surface in pixels (or canvas units).
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Active reports whether the viewport has a positive area. An inactive
// viewport gates the diagram: no scene is built and no solver runs.
func (v Viewport) Active() bool {
	return v.Width > 0 && v.Height > 0
}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() Point {
	return Point{X: v.Width / 2, Y: v.Height / 2}
}

// Sizer observes the host surface and reports size changes.
//
// The first observation always emits, even when the size is zero, so a
// freshly mounted diagram learns its initial size before any resize happens.
// Later observations emit only when the size changes.
type Sizer struct {
	vp   Viewport
	seen bool
}

// Observe records the current surface size and reports whether it should be
// propagated downstream.
func (s *Sizer) Observe(width, height float64) (Viewport, bool) {
	vp := Viewport{Width: width, Height: height}
	if s.seen && vp == s.vp {
		return vp, false
	}
	s.vp, s.seen = vp, true
	return vp, true
}

// Viewport returns the last observed size.
func (s *Sizer) Viewport() Viewport { return s.vp }

// Observed reports whether Observe has been called at least once.
func (s *Sizer) Observed() bool { return s.seen }
