package diagram

import (
	"testing"
	"time"
)

// fakeScheduler is a manual clock. Timers fire during Advance.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
	leaky  bool // cancel does nothing, as with a timer that already fired
}

type fakeTimer struct {
	at   time.Duration
	fn   func()
	done bool
}

func (s *fakeScheduler) After(d time.Duration, fn func()) func() {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return func() {
		if !s.leaky {
			t.done = true
		}
	}
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	for _, t := range s.timers {
		if !t.done && t.at <= s.now {
			t.done = true
			t.fn()
		}
	}
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.done {
			n++
		}
	}
	return n
}

func TestHoverTiming(t *testing.T) {
	tests := []struct {
		name      string
		hold      time.Duration
		leave     bool
		wantShown int
	}{
		{"leave before delay", 999 * time.Millisecond, true, 0},
		{"leave immediately", 0, true, 0},
		{"held exactly delay", time.Second, false, 1},
		{"held well past delay", 5 * time.Second, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{}
			h := NewHover(sched, time.Second, DefaultTooltipOffset)

			h.Enter(3, 50, 60)
			if h.State() != HoverPending {
				t.Fatalf("state after enter = %v, want pending", h.State())
			}
			sched.Advance(tt.hold)
			if tt.leave {
				h.Leave()
			}
			sched.Advance(10 * time.Second)

			if h.Shown() != tt.wantShown {
				t.Errorf("tooltip shown %d times, want %d", h.Shown(), tt.wantShown)
			}
			_, visible := h.Tooltip()
			if visible != (tt.wantShown > 0) {
				t.Errorf("tooltip visible = %v", visible)
			}
		})
	}
}

func TestHoverTooltipTracksPointer(t *testing.T) {
	sched := &fakeScheduler{}
	h := NewHover(sched, time.Second, DefaultTooltipOffset)

	h.Enter(1, 50, 60)
	sched.Advance(time.Second)

	tip, ok := h.Tooltip()
	if !ok {
		t.Fatal("tooltip not shown")
	}
	if tip.Node != 1 || tip.X != 60 || tip.Y != 40 {
		t.Errorf("tooltip = %+v, want node 1 at (60, 40)", tip)
	}

	h.Move(70, 80)
	tip, _ = h.Tooltip()
	if tip.X != 80 || tip.Y != 60 {
		t.Errorf("tooltip after move at (%v, %v), want (80, 60)", tip.X, tip.Y)
	}
	if h.State() != HoverShown || h.Shown() != 1 {
		t.Errorf("move re-delayed the tooltip: state %v, shown %d", h.State(), h.Shown())
	}

	h.Leave()
	if _, ok := h.Tooltip(); ok {
		t.Error("tooltip visible after leave")
	}
}

func TestHoverIgnoresStaleTimer(t *testing.T) {
	sched := &fakeScheduler{leaky: true}
	h := NewHover(sched, time.Second, Point{})

	h.Enter(1, 0, 0)
	sched.Advance(500 * time.Millisecond)
	h.Leave()
	h.Enter(2, 0, 0)

	// The first session's timer fires here despite being cancelled.
	sched.Advance(500 * time.Millisecond)
	if h.State() != HoverPending {
		t.Fatalf("stale timer changed state to %v", h.State())
	}

	sched.Advance(500 * time.Millisecond)
	tip, ok := h.Tooltip()
	if !ok || tip.Node != 2 {
		t.Errorf("tooltip = %+v, %v; want node 2 shown", tip, ok)
	}
	if h.Shown() != 1 {
		t.Errorf("shown %d times, want 1", h.Shown())
	}
}

func TestHoverSwitchNodesRestartsDelay(t *testing.T) {
	sched := &fakeScheduler{}
	h := NewHover(sched, time.Second, Point{})

	h.Enter(1, 0, 0)
	sched.Advance(800 * time.Millisecond)
	h.Enter(2, 5, 5)
	sched.Advance(800 * time.Millisecond)
	if h.State() != HoverPending || h.Node() != 2 {
		t.Fatalf("state %v node %d, want pending on 2", h.State(), h.Node())
	}
	if sched.pending() != 1 {
		t.Errorf("%d pending timers, want 1", sched.pending())
	}

	// Re-entering the same node keeps the running delay.
	h.Enter(2, 6, 6)
	sched.Advance(200 * time.Millisecond)
	if h.State() != HoverShown {
		t.Errorf("state = %v, want shown", h.State())
	}
}

func TestHoverResetCancelsTimer(t *testing.T) {
	sched := &fakeScheduler{}
	h := NewHover(sched, time.Second, Point{})

	h.Enter(1, 0, 0)
	h.Reset()
	if sched.pending() != 0 {
		t.Errorf("%d timers still pending after reset", sched.pending())
	}
	sched.Advance(2 * time.Second)
	if h.Shown() != 0 {
		t.Error("tooltip shown after reset")
	}
}
