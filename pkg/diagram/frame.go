package diagram

import "math"

// NodeView is one node as painted in a frame.
type NodeView struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Icon     string  `json:"icon,omitempty"`
	Category string  `json:"category,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pinned   bool    `json:"pinned,omitempty"`
}

// Segment is one edge line, already shortened to the node boundaries.
type Segment struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Frame is a position snapshot ready for painting.
type Frame struct {
	SceneID  string     `json:"scene_id"`
	Width    float64    `json:"width"`
	Height   float64    `json:"height"`
	Radius   float64    `json:"radius"`
	IconSize float64    `json:"icon_size"`
	Nodes    []NodeView `json:"nodes"`
	Segments []Segment  `json:"segments"`
}

// Clamp moves every body into [r, W-r] x [r, H-r]. The solver continues
// from the clamped position, so a diagram clamps after every step.
//
// When the viewport is narrower than 2r the node sits at r.
func (s *Scene) Clamp() {
	r := s.Radius
	for i := range s.Bodies {
		b := &s.Bodies[i]
		b.X = clamp(b.X, r, s.Viewport.Width-r)
		b.Y = clamp(b.Y, r, s.Viewport.Height-r)
	}
}

// Frame clamps the scene and returns the painted geometry. Calling Frame
// again without a solver step returns the same geometry.
func (s *Scene) Frame() Frame {
	s.Clamp()
	r := s.Radius
	f := Frame{
		SceneID:  s.ID,
		Width:    s.Viewport.Width,
		Height:   s.Viewport.Height,
		Radius:   r,
		IconSize: s.opts.EffectiveIconSize(),
		Nodes:    make([]NodeView, len(s.Nodes)),
		Segments: make([]Segment, len(s.Edges)),
	}

	for i, b := range s.Bodies {
		n := s.Nodes[i]
		f.Nodes[i] = NodeView{
			ID:       n.ID,
			Name:     n.Label(),
			Icon:     n.Icon,
			Category: n.Category,
			X:        b.X,
			Y:        b.Y,
			Pinned:   b.Pinned(),
		}
	}

	for i, e := range s.Edges {
		src, tgt := f.Nodes[e.Source], f.Nodes[e.Target]
		ox, oy := edgeOffset(src.X, src.Y, tgt.X, tgt.Y, r)
		f.Segments[i] = Segment{
			Source: src.ID,
			Target: tgt.ID,
			X1:     src.X + ox,
			Y1:     src.Y + oy,
			X2:     tgt.X - ox,
			Y2:     tgt.Y - oy,
		}
	}
	return f
}

// edgeOffset returns the vector of length r from (x1, y1) toward (x2, y2).
// Coincident endpoints yield a zero offset.
func edgeOffset(x1, y1, x2, y2, r float64) (float64, float64) {
	dx, dy := x2-x1, y2-y1
	d := math.Hypot(dx, dy)
	if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, 0
	}
	return dx / d * r, dy / d * r
}

// clamp bounds v to [lo, hi], preferring lo when the range is empty.
// NaN is mapped to lo so a frame never carries an undefined coordinate.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// NodeAt returns the index of the topmost node whose radius covers (x, y).
// Later nodes paint over earlier ones, so the search runs backwards.
func (f Frame) NodeAt(x, y float64) (int, bool) {
	r2 := f.Radius * f.Radius
	for i := len(f.Nodes) - 1; i >= 0; i-- {
		dx, dy := f.Nodes[i].X-x, f.Nodes[i].Y-y
		if dx*dx+dy*dy <= r2 {
			return i, true
		}
	}
	return -1, false
}
