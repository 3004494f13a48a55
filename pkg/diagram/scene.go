package diagram

import (
	"math"

	"github.com/google/uuid"

	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/force"
	"github.com/matzehuels/folio/pkg/graph"
)

// Scene is the working copy of one graph at one viewport size.
//
// Nodes, Bodies and Anchors are parallel slices addressed by node index.
// Edges hold resolved index pairs. A scene is never patched: any change to
// its inputs builds a new one.
type Scene struct {
	ID       string
	Viewport Viewport
	Radius   float64

	Nodes  []graph.Node
	Bodies []force.Body
	Edges  []force.Pair

	// Anchors[i] is the pixel anchor of node i, or nil when its category has
	// no anchor.
	Anchors []*Point

	index map[int]int
	opts  Options
}

// BuildScene copies g into a new scene sized to vp.
//
// Edges are resolved to node indices; an edge whose endpoint is missing fails
// the build with an UNKNOWN_NODE error. Nodes with an anchored category start
// on a circle of opts.SpawnRadius around the anchor, slot k of count at angle
// 2πk/count. Other nodes keep an undefined position and are placed by the
// solver around the viewport centre. g is not modified.
func BuildScene(g graph.Graph, vp Viewport, opts Options) (*Scene, error) {
	if !vp.Active() {
		return nil, errors.New(errors.ErrCodeInvalidViewport,
			"cannot build scene for %gx%g viewport", vp.Width, vp.Height)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalized()

	s := &Scene{
		ID:       uuid.NewString(),
		Viewport: vp,
		Radius:   opts.NodeRadius(),
		Nodes:    make([]graph.Node, len(g.Nodes)),
		Bodies:   make([]force.Body, len(g.Nodes)),
		Edges:    make([]force.Pair, len(g.Edges)),
		Anchors:  make([]*Point, len(g.Nodes)),
		index:    g.Index(),
		opts:     opts,
	}
	copy(s.Nodes, g.Nodes)

	for i, e := range g.Edges {
		s.Edges[i] = force.Pair{Source: s.index[e.Source], Target: s.index[e.Target]}
	}

	anchors := opts.Anchors.Resolve(vp)
	for i, n := range s.Nodes {
		if p, ok := anchors[n.Category]; ok && n.Category != "" {
			s.Anchors[i] = &p
		}
	}
	s.seed()
	return s, nil
}

// seed places anchored nodes evenly around their category anchor.
func (s *Scene) seed() {
	counts := make(map[string]int)
	for i, n := range s.Nodes {
		if s.Anchors[i] != nil {
			counts[n.Category]++
		}
	}

	slot := make(map[string]int)
	for i, n := range s.Nodes {
		s.Bodies[i] = force.NewBody()
		a := s.Anchors[i]
		if a == nil {
			continue
		}
		k := slot[n.Category]
		slot[n.Category]++
		theta := 2 * math.Pi * float64(k) / float64(counts[n.Category])
		s.Bodies[i].X = a.X + s.opts.SpawnRadius*math.Cos(theta)
		s.Bodies[i].Y = a.Y + s.opts.SpawnRadius*math.Sin(theta)
	}
}

// Len returns the number of nodes.
func (s *Scene) Len() int { return len(s.Nodes) }

// IndexOf returns the arena index of the node with the given id.
func (s *Scene) IndexOf(id int) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// Options returns the normalized options the scene was built with.
func (s *Scene) Options() Options { return s.opts }

// Categorized reports whether any node is pulled toward an anchor.
func (s *Scene) Categorized() bool {
	for _, a := range s.Anchors {
		if a != nil {
			return true
		}
	}
	return false
}
