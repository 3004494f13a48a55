package force

import "math"

// Pair connects two bodies by index.
type Pair struct {
	Source, Target int
}

// Link pulls connected bodies toward a uniform rest length.
//
// Each pair's strength defaults to 1/min(deg(source), deg(target)) so that
// hubs are not torn apart, and the correction is split between the endpoints
// in proportion to their degree (the bias).
type Link struct {
	pairs      []Pair
	distance   float64
	iterations int

	bodies    []Body
	jiggle    func() float64
	strengths []float64
	bias      []float64
}

// NewLink creates a link force with the given rest length.
func NewLink(pairs []Pair, distance float64) *Link {
	return &Link{pairs: pairs, distance: distance, iterations: 1}
}

// Iterations sets how many relaxation passes run per step.
func (l *Link) Iterations(n int) *Link {
	if n > 0 {
		l.iterations = n
	}
	return l
}

// Distance returns the rest length.
func (l *Link) Distance() float64 { return l.distance }

// Pairs returns the connected index pairs.
func (l *Link) Pairs() []Pair { return l.pairs }

// Init computes per-pair strength and bias from node degrees.
func (l *Link) Init(bodies []Body, jiggle func() float64) {
	l.bodies = bodies
	l.jiggle = jiggle

	count := make([]int, len(bodies))
	for _, p := range l.pairs {
		count[p.Source]++
		count[p.Target]++
	}

	l.strengths = make([]float64, len(l.pairs))
	l.bias = make([]float64, len(l.pairs))
	for i, p := range l.pairs {
		cs, ct := float64(count[p.Source]), float64(count[p.Target])
		l.bias[i] = cs / (cs + ct)
		l.strengths[i] = 1 / math.Min(cs, ct)
	}
}

// Apply nudges endpoint velocities toward the rest length.
func (l *Link) Apply(alpha float64) {
	for k := 0; k < l.iterations; k++ {
		for i, p := range l.pairs {
			src, tgt := &l.bodies[p.Source], &l.bodies[p.Target]

			x := tgt.X + tgt.VX - src.X - src.VX
			if x == 0 {
				x = l.jiggle()
			}
			y := tgt.Y + tgt.VY - src.Y - src.VY
			if y == 0 {
				y = l.jiggle()
			}

			d := math.Sqrt(x*x + y*y)
			if d == 0 {
				continue
			}
			d = (d - l.distance) / d * alpha * l.strengths[i]
			x *= d
			y *= d

			b := l.bias[i]
			tgt.VX -= x * b
			tgt.VY -= y * b
			b = 1 - b
			src.VX += x * b
			src.VY += y * b
		}
	}
}
