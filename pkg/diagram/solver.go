package diagram

import (
	"github.com/matzehuels/folio/pkg/force"
)

// Force names registered on every scene solver.
const (
	ForceLink   = "link"
	ForceCharge = "charge"
	ForceGroup  = "group"
)

// newSolver creates a simulation over the scene's bodies. The simulation
// shares the scene's body slice, so frames read what the solver writes.
func newSolver(s *Scene) *force.Simulation {
	c := s.Viewport.Center()
	sim := force.New(s.Bodies,
		force.WithSeed(s.opts.Seed),
		force.WithOrigin(c.X, c.Y),
	)
	sim.AddForce(ForceLink, force.NewLink(s.Edges, s.opts.LinkDistance))
	if s.opts.Charge != 0 {
		sim.AddForce(ForceCharge, force.NewManyBody(s.opts.Charge))
	}
	if s.opts.GroupPull != 0 && s.Categorized() {
		sim.AddForce(ForceGroup, &groupForce{anchors: s.Anchors, pull: s.opts.GroupPull})
	}
	return sim
}

// groupForce nudges each anchored body toward its anchor:
//
//	v += (anchor - p) * alpha * pull
//
// The pull fades with alpha, so it shapes the layout while the solver is hot
// and never pins a node in place.
type groupForce struct {
	anchors []*Point
	pull    float64
	bodies  []force.Body
}

func (g *groupForce) Init(bodies []force.Body, _ func() float64) {
	g.bodies = bodies
}

func (g *groupForce) Apply(alpha float64) {
	k := alpha * g.pull
	for i := range g.bodies {
		a := g.anchors[i]
		if a == nil {
			continue
		}
		b := &g.bodies[i]
		b.VX += (a.X - b.X) * k
		b.VY += (a.Y - b.Y) * k
	}
}
