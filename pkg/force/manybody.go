package force

import "math"

// ManyBody applies a pairwise inverse-distance force between all bodies.
// A negative strength repels, a positive one attracts.
//
// Forces are summed exactly over all pairs. Diagrams here hold tens of nodes,
// where a Barnes-Hut approximation would cost more than it saves.
type ManyBody struct {
	strength     float64
	distanceMin2 float64
	distanceMax2 float64

	bodies []Body
	jiggle func() float64
}

// NewManyBody creates a many-body force with a uniform strength.
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{
		strength:     strength,
		distanceMin2: 1,
		distanceMax2: math.Inf(1),
	}
}

// DistanceMin bounds the distance used in the force denominator, which
// keeps near-coincident bodies from receiving huge impulses.
func (m *ManyBody) DistanceMin(d float64) *ManyBody {
	m.distanceMin2 = d * d
	return m
}

// DistanceMax ignores pairs farther apart than d.
func (m *ManyBody) DistanceMax(d float64) *ManyBody {
	m.distanceMax2 = d * d
	return m
}

// Strength returns the uniform coefficient.
func (m *ManyBody) Strength() float64 { return m.strength }

// Init binds the force to the simulation's bodies.
func (m *ManyBody) Init(bodies []Body, jiggle func() float64) {
	m.bodies = bodies
	m.jiggle = jiggle
}

// Apply accumulates the pairwise force into each body's velocity.
func (m *ManyBody) Apply(alpha float64) {
	for i := range m.bodies {
		node := &m.bodies[i]
		for j := range m.bodies {
			if i == j {
				continue
			}
			other := &m.bodies[j]

			x := other.X - node.X
			y := other.Y - node.Y
			l := x*x + y*y
			if l >= m.distanceMax2 {
				continue
			}
			if x == 0 {
				x = m.jiggle()
				l += x * x
			}
			if y == 0 {
				y = m.jiggle()
				l += y * y
			}
			if l < m.distanceMin2 {
				l = math.Sqrt(m.distanceMin2 * l)
			}

			w := m.strength * alpha / l
			node.VX += x * w
			node.VY += y * w
		}
	}
}
