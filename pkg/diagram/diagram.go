package diagram

import (
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/matzehuels/folio/pkg/force"
	"github.com/matzehuels/folio/pkg/graph"
	"github.com/matzehuels/folio/pkg/observability"
)

// Diagram owns the live lifecycle of one animated diagram: the current
// viewport, the scene built for it, the scene's solver, the hover session and
// the active drag.
//
// Every change of graph, options or viewport discards the scene and solver
// and releases the hover timer and drag before building new ones. While the
// viewport has no area the diagram is inactive and Step does nothing.
type Diagram struct {
	graph  graph.Graph
	opts   Options
	sched  Scheduler
	logger *log.Logger

	sizer Sizer
	scene *Scene
	sim   *force.Simulation
	hover *Hover
	drag  Drag

	steps   int
	closed  bool
	tickLog rate.Sometimes
}

// New creates an inactive diagram for g. Call Resize with the surface size to
// build the first scene. A nil logger uses log.Default().
func New(g graph.Graph, opts Options, sched Scheduler, logger *log.Logger) (*Diagram, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Anchors.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	opts = opts.normalized()
	return &Diagram{
		graph:   g.Clone(),
		opts:    opts,
		sched:   sched,
		logger:  logger,
		hover:   NewHover(sched, opts.HoverDelay, opts.TooltipOffset),
		tickLog: rate.Sometimes{Interval: time.Second},
	}, nil
}

// Resize reports the surface size. A changed size rebuilds the scene; the
// first call always does.
func (d *Diagram) Resize(width, height float64) error {
	if d.closed {
		return nil
	}
	if _, changed := d.sizer.Observe(width, height); !changed {
		return nil
	}
	return d.rebuild()
}

// SetGraph replaces the graph and rebuilds. An invalid graph is rejected and
// the current scene stays in place.
func (d *Diagram) SetGraph(g graph.Graph) error {
	if err := g.Validate(); err != nil {
		return err
	}
	d.graph = g.Clone()
	return d.rebuild()
}

// SetOptions replaces the tuning and rebuilds. Invalid anchors are rejected
// and the current scene stays in place.
func (d *Diagram) SetOptions(opts Options) error {
	if err := opts.Anchors.Validate(); err != nil {
		return err
	}
	d.opts = opts.normalized()
	d.hover.Reset()
	d.hover = NewHover(d.sched, d.opts.HoverDelay, d.opts.TooltipOffset)
	return d.rebuild()
}

// release stops the solver and ends the hover session and drag.
func (d *Diagram) release() {
	d.hover.Reset()
	d.drag = Drag{}
	if d.sim != nil {
		d.sim.Stop()
	}
	d.sim, d.scene = nil, nil
	d.steps = 0
}

func (d *Diagram) rebuild() error {
	if d.closed {
		return nil
	}
	d.release()

	vp := d.sizer.Viewport()
	if !vp.Active() {
		d.logger.Debug("diagram inactive", "width", vp.Width, "height", vp.Height)
		return nil
	}

	scene, err := BuildScene(d.graph, vp, d.opts)
	if err != nil {
		return err
	}
	d.scene = scene
	d.sim = newSolver(scene)

	d.logger.Debug("scene built", "scene", scene.ID, "nodes", scene.Len(), "edges", len(scene.Edges),
		"width", vp.Width, "height", vp.Height)
	observability.Diagram().OnRebuild(scene.ID, scene.Len(), len(scene.Edges), vp.Width, vp.Height)
	return nil
}

// Step advances the solver by one iteration, clamps the bodies into the
// viewport and reports whether it is still running. An idle or inactive
// diagram does not move.
func (d *Diagram) Step() bool {
	if d.sim == nil || !d.sim.Running() {
		return false
	}
	running := d.sim.Step()
	d.scene.Clamp()
	d.steps++
	d.tickLog.Do(func() {
		d.logger.Debug("tick", "scene", d.scene.ID, "step", d.steps, "alpha", d.sim.Alpha())
	})
	if !running {
		d.logger.Debug("solver idle", "scene", d.scene.ID, "steps", d.steps)
		observability.Diagram().OnSettle(d.scene.ID, d.steps)
	}
	return running
}

// Frame clamps the scene and returns its geometry. ok is false while the
// diagram is inactive.
func (d *Diagram) Frame() (f Frame, ok bool) {
	if d.scene == nil {
		return Frame{}, false
	}
	return d.scene.Frame(), true
}

// HitTest returns the index of the topmost node under (x, y).
func (d *Diagram) HitTest(x, y float64) (int, bool) {
	if d.scene == nil {
		return -1, false
	}
	r2 := d.scene.Radius * d.scene.Radius
	for i := len(d.scene.Bodies) - 1; i >= 0; i-- {
		b := d.scene.Bodies[i]
		dx, dy := b.X-x, b.Y-y
		if dx*dx+dy*dy <= r2 {
			return i, true
		}
	}
	return -1, false
}

// PointerMove routes pointer motion to the drag and hover state machines.
func (d *Diagram) PointerMove(x, y float64) {
	if d.scene == nil {
		return
	}
	if d.drag.Active() {
		d.drag.Move(d.sim, x, y)
		d.hover.Move(x, y)
		return
	}
	i, hit := d.HitTest(x, y)
	switch {
	case hit:
		d.hover.Enter(i, x, y)
	case d.hover.State() != HoverIdle:
		d.hover.Leave()
	}
}

// PointerDown starts a drag on the node under (x, y) and reports whether one
// started.
func (d *Diagram) PointerDown(x, y float64) bool {
	i, hit := d.HitTest(x, y)
	if !hit {
		return false
	}
	d.drag.Start(d.sim, i, x, y)
	d.logger.Debug("drag start", "scene", d.scene.ID, "node", d.scene.Nodes[i].ID)
	observability.Diagram().OnDragStart(d.scene.ID, d.scene.Nodes[i].ID)
	return true
}

// PointerUp ends the active drag, if any.
func (d *Diagram) PointerUp() {
	if !d.drag.Active() {
		return
	}
	id := d.scene.Nodes[d.drag.Node()].ID
	d.drag.End(d.sim)
	d.logger.Debug("drag end", "scene", d.scene.ID, "node", id)
	observability.Diagram().OnDragEnd(d.scene.ID, id)
}

// PointerLeave handles the pointer leaving the surface: the tooltip hides
// and any drag is released.
func (d *Diagram) PointerLeave() {
	d.hover.Leave()
	d.PointerUp()
}

// Tooltip returns the visible tooltip and its node.
func (d *Diagram) Tooltip() (Tooltip, graph.Node, bool) {
	t, ok := d.hover.Tooltip()
	if !ok || d.scene == nil {
		return Tooltip{}, graph.Node{}, false
	}
	return t, d.scene.Nodes[t.Node], true
}

// HoverState returns the hover state machine's state.
func (d *Diagram) HoverState() HoverState { return d.hover.State() }

// Dragging returns the dragged node index, or -1.
func (d *Diagram) Dragging() int { return d.drag.Node() }

// Active reports whether a scene exists.
func (d *Diagram) Active() bool { return d.scene != nil }

// Running reports whether the solver is still moving nodes.
func (d *Diagram) Running() bool { return d.sim != nil && d.sim.Running() }

// Alpha returns the solver's energy, or 0 while inactive.
func (d *Diagram) Alpha() float64 {
	if d.sim == nil {
		return 0
	}
	return d.sim.Alpha()
}

// Scene returns the current scene, or nil while inactive.
func (d *Diagram) Scene() *Scene { return d.scene }

// Graph returns a copy of the current graph.
func (d *Diagram) Graph() graph.Graph { return d.graph.Clone() }

// Options returns the current tuning.
func (d *Diagram) Options() Options { return d.opts }

// Viewport returns the last observed surface size.
func (d *Diagram) Viewport() Viewport { return d.sizer.Viewport() }

// Close releases the solver, hover timer and drag. Later calls do nothing.
func (d *Diagram) Close() {
	if d.closed {
		return
	}
	d.release()
	d.closed = true
}
