package force

import (
	"math"
	"math/rand/v2"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultAlphaMin is the energy level below which the simulation goes idle.
	DefaultAlphaMin = 0.001

	// DefaultVelocityDecay is the fraction of velocity lost per step (friction).
	DefaultVelocityDecay = 0.4

	// DefaultSeed seeds the jiggle source when no seed is given.
	DefaultSeed = uint64(42)

	initialRadius = 10.0
	jiggleScale   = 1e-6
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in about 300 steps.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// initialAngle is the golden angle used for phyllotaxis placement.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// =============================================================================
// Body
// =============================================================================

// Body is the mutable simulation record for one node.
//
// X and Y are NaN until the first placement pass. When FixedX (FixedY) is set
// the simulation holds the body at FX (FY) and does not integrate that axis.
type Body struct {
	X, Y   float64
	VX, VY float64

	FX, FY         float64
	FixedX, FixedY bool
}

// NewBody returns a body with an undefined position.
func NewBody() Body {
	return Body{X: math.NaN(), Y: math.NaN()}
}

// Placed reports whether the body has a defined position.
func (b *Body) Placed() bool {
	return !math.IsNaN(b.X) && !math.IsNaN(b.Y)
}

// Pin fixes the body at (x, y) on both axes.
func (b *Body) Pin(x, y float64) {
	b.FX, b.FY = x, y
	b.FixedX, b.FixedY = true, true
}

// Unpin releases both axes for free integration.
func (b *Body) Unpin() {
	b.FixedX, b.FixedY = false, false
}

// Pinned reports whether either axis is pinned.
func (b *Body) Pinned() bool {
	return b.FixedX || b.FixedY
}

// =============================================================================
// Force
// =============================================================================

// Force adjusts body velocities once per simulation step.
//
// Init is called when the force is registered. The bodies slice is shared with
// the simulation; forces mutate velocities in place. jiggle returns a tiny
// random offset for separating coincident bodies.
type Force interface {
	Init(bodies []Body, jiggle func() float64)
	Apply(alpha float64)
}

// Func adapts a plain function into a Force.
type Func func(alpha float64)

// Init is a no-op; a Func captures whatever state it needs.
func (f Func) Init([]Body, func() float64) {}

// Apply calls f.
func (f Func) Apply(alpha float64) { f(alpha) }

// =============================================================================
// Simulation
// =============================================================================

type namedForce struct {
	name  string
	force Force
}

// Simulation advances a set of bodies under registered forces.
//
// It is not safe for concurrent use; callers drive it from a single
// goroutine (a render loop or a test).
type Simulation struct {
	bodies []Body
	forces []namedForce

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	originX, originY float64
	seed             uint64
	rng              *rand.Rand
	idle             bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithSeed seeds the jiggle source.
func WithSeed(seed uint64) Option { return func(s *Simulation) { s.seed = seed } }

// WithOrigin sets the centre used to place bodies that have no position yet.
func WithOrigin(x, y float64) Option {
	return func(s *Simulation) { s.originX, s.originY = x, y }
}

// WithAlphaMin sets the idle threshold.
func WithAlphaMin(v float64) Option { return func(s *Simulation) { s.alphaMin = v } }

// WithAlphaDecay sets the per-step cooling rate.
func WithAlphaDecay(v float64) Option { return func(s *Simulation) { s.alphaDecay = v } }

// WithVelocityDecay sets the per-step friction.
func WithVelocityDecay(v float64) Option { return func(s *Simulation) { s.velocityDecay = v } }

// New creates a simulation over bodies. The slice is used in place, not copied.
// Bodies without a position are placed on a phyllotaxis spiral around the
// origin; undefined velocities are zeroed.
func New(bodies []Body, opts ...Option) *Simulation {
	s := &Simulation{
		bodies:        bodies,
		alpha:         1,
		alphaMin:      DefaultAlphaMin,
		alphaDecay:    DefaultAlphaDecay,
		velocityDecay: DefaultVelocityDecay,
		seed:          DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewPCG(s.seed, s.seed^0xdeadbeef))
	s.place()
	return s
}

func (s *Simulation) place() {
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.FixedX {
			b.X = b.FX
		}
		if b.FixedY {
			b.Y = b.FY
		}
		if !b.Placed() {
			radius := initialRadius * math.Sqrt(0.5+float64(i))
			angle := float64(i) * initialAngle
			b.X = s.originX + radius*math.Cos(angle)
			b.Y = s.originY + radius*math.Sin(angle)
		}
		if math.IsNaN(b.VX) || math.IsNaN(b.VY) {
			b.VX, b.VY = 0, 0
		}
	}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * jiggleScale
}

// Bodies returns the body slice the simulation integrates.
func (s *Simulation) Bodies() []Body { return s.bodies }

// Body returns a pointer to body i for pinning and inspection.
func (s *Simulation) Body(i int) *Body { return &s.bodies[i] }

// AddForce registers f under name, replacing any force with the same name.
func (s *Simulation) AddForce(name string, f Force) {
	f.Init(s.bodies, s.jiggle)
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces[i].force = f
			return
		}
	}
	s.forces = append(s.forces, namedForce{name: name, force: f})
}

// Force returns the force registered under name, or nil.
func (s *Simulation) Force(name string) Force {
	for _, nf := range s.forces {
		if nf.name == name {
			return nf.force
		}
	}
	return nil
}

// RemoveForce unregisters the force with the given name.
func (s *Simulation) RemoveForce(name string) {
	for i := range s.forces {
		if s.forces[i].name == name {
			s.forces = append(s.forces[:i], s.forces[i+1:]...)
			return
		}
	}
}

// Alpha returns the current energy term.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current energy term.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// AlphaTarget returns the value alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the value alpha decays toward.
func (s *Simulation) SetAlphaTarget(a float64) { s.alphaTarget = a }

// AlphaMin returns the idle threshold.
func (s *Simulation) AlphaMin() float64 { return s.alphaMin }

// Restart resumes stepping after the simulation went idle or was stopped.
// It does not change alpha.
func (s *Simulation) Restart() { s.idle = false }

// Stop halts stepping until Restart is called.
func (s *Simulation) Stop() { s.idle = true }

// Running reports whether Step will advance the simulation.
func (s *Simulation) Running() bool { return !s.idle }

// Step advances one iteration if running and reports whether the simulation
// is still running afterwards. The simulation goes idle as soon as alpha
// drops below AlphaMin.
func (s *Simulation) Step() bool {
	if s.idle {
		return false
	}
	s.Tick(1)
	if s.alpha < s.alphaMin {
		s.idle = true
	}
	return !s.idle
}

// Tick advances n iterations unconditionally, ignoring the idle state.
func (s *Simulation) Tick(n int) {
	decay := 1 - s.velocityDecay
	for ; n > 0; n-- {
		s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

		for _, nf := range s.forces {
			nf.force.Apply(s.alpha)
		}

		for i := range s.bodies {
			b := &s.bodies[i]
			if b.FixedX {
				b.X, b.VX = b.FX, 0
			} else {
				b.VX *= decay
				b.X += b.VX
			}
			if b.FixedY {
				b.Y, b.VY = b.FY, 0
			} else {
				b.VY *= decay
				b.Y += b.VY
			}
		}
	}
}
