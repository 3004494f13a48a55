package diagram

import (
	"time"

	"github.com/matzehuels/folio/pkg/force"
)

// Scheduler runs fn once after d unless the returned cancel func is called
// first. Implementations must deliver fn on the same event loop that drives
// the diagram; the terminal UI does this by sending a message to its program.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

// =============================================================================
// Hover
// =============================================================================

// HoverState is the tooltip state of the hovered node.
type HoverState int

const (
	HoverIdle HoverState = iota
	HoverPending
	HoverShown
)

func (s HoverState) String() string {
	switch s {
	case HoverPending:
		return "pending"
	case HoverShown:
		return "shown"
	default:
		return "idle"
	}
}

// Tooltip is a visible tooltip for one node.
type Tooltip struct {
	Node int // arena index
	X, Y float64
}

// Hover tracks delayed tooltips.
//
// Each Enter opens a session with its own timer. Leave, Reset and a new
// Enter on another node end the session and cancel its timer, and a timer
// that fires for an ended session is ignored.
type Hover struct {
	sched  Scheduler
	delay  time.Duration
	offset Point

	state   HoverState
	node    int
	px, py  float64
	session uint64
	cancel  func()
	shown   int
}

// NewHover creates a hover tracker that shows tooltips after delay.
func NewHover(sched Scheduler, delay time.Duration, offset Point) *Hover {
	return &Hover{sched: sched, delay: delay, offset: offset, node: -1}
}

// Enter records the pointer entering node at (x, y) and starts the delay.
// Entering the node that is already hovered only moves the pointer.
func (h *Hover) Enter(node int, x, y float64) {
	if h.state != HoverIdle && h.node == node {
		h.Move(x, y)
		return
	}
	h.Leave()

	h.session++
	h.state = HoverPending
	h.node = node
	h.px, h.py = x, y

	session := h.session
	h.cancel = h.sched.After(h.delay, func() { h.fire(session) })
}

func (h *Hover) fire(session uint64) {
	if session != h.session || h.state != HoverPending {
		return
	}
	h.state = HoverShown
	h.cancel = nil
	h.shown++
}

// Move updates the pointer position. A shown tooltip follows it without a
// new delay.
func (h *Hover) Move(x, y float64) {
	if h.state == HoverIdle {
		return
	}
	h.px, h.py = x, y
}

// Leave hides the tooltip and cancels any pending timer.
func (h *Hover) Leave() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.session++
	h.state = HoverIdle
	h.node = -1
}

// Reset ends the session. It is called on rebuilds and on close.
func (h *Hover) Reset() { h.Leave() }

// State returns the current hover state.
func (h *Hover) State() HoverState { return h.state }

// Node returns the hovered node index, or -1.
func (h *Hover) Node() int { return h.node }

// Tooltip returns the visible tooltip, offset from the pointer.
func (h *Hover) Tooltip() (Tooltip, bool) {
	if h.state != HoverShown {
		return Tooltip{}, false
	}
	return Tooltip{Node: h.node, X: h.px + h.offset.X, Y: h.py + h.offset.Y}, true
}

// Shown returns how many times a tooltip became visible.
func (h *Hover) Shown() int { return h.shown }

// =============================================================================
// Drag
// =============================================================================

// Drag pins one node to the pointer for the length of a gesture.
type Drag struct {
	node   int
	active bool
}

// Start pins node i at (x, y) and reheats sim.
func (d *Drag) Start(sim *force.Simulation, i int, x, y float64) {
	if d.active {
		d.End(sim)
	}
	d.node, d.active = i, true
	d.pin(sim, x, y)
	sim.SetAlphaTarget(ReheatTarget)
	sim.Restart()
}

// Move moves the pin to (x, y).
func (d *Drag) Move(sim *force.Simulation, x, y float64) {
	if !d.active {
		return
	}
	d.pin(sim, x, y)
}

// End releases the pin and lets alpha decay from its current value.
// The node stays at the last pin position until the next step.
func (d *Drag) End(sim *force.Simulation) {
	if !d.active {
		return
	}
	sim.Body(d.node).Unpin()
	sim.SetAlphaTarget(0)
	d.active = false
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool { return d.active }

// Node returns the dragged node index, or -1.
func (d *Drag) Node() int {
	if !d.active {
		return -1
	}
	return d.node
}

func (d *Drag) pin(sim *force.Simulation, x, y float64) {
	b := sim.Body(d.node)
	b.Pin(x, y)
	b.X, b.Y = x, y
	b.VX, b.VY = 0, 0
}

// =============================================================================
// Timer scheduler
// =============================================================================

// TimerScheduler runs callbacks on timer goroutines through post, which must
// hand fn back to the event loop.
type TimerScheduler struct {
	post func(fn func())
}

// NewTimerScheduler creates a scheduler that forwards fired callbacks to post.
func NewTimerScheduler(post func(fn func())) *TimerScheduler {
	return &TimerScheduler{post: post}
}

// After implements Scheduler.
func (s *TimerScheduler) After(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { s.post(fn) })
	return func() { t.Stop() }
}
