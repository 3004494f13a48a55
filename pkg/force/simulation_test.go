package force

import (
	"math"
	"testing"
)

func newBodies(n int) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		bodies[i] = NewBody()
	}
	return bodies
}

func TestNewPlacesUndefinedBodies(t *testing.T) {
	bodies := newBodies(5)
	bodies[2].X, bodies[2].Y = 100, 200

	sim := New(bodies, WithOrigin(50, 50))

	seen := map[[2]float64]bool{}
	for i, b := range sim.Bodies() {
		if !b.Placed() {
			t.Fatalf("body %d not placed", i)
		}
		key := [2]float64{b.X, b.Y}
		if seen[key] {
			t.Errorf("body %d placed on top of another body at %v", i, key)
		}
		seen[key] = true
	}
	if bodies[2].X != 100 || bodies[2].Y != 200 {
		t.Errorf("pre-placed body moved to (%v, %v)", bodies[2].X, bodies[2].Y)
	}
	if d := math.Hypot(bodies[0].X-50, bodies[0].Y-50); d > 20 {
		t.Errorf("first spiral body %v from origin, want near origin", d)
	}
}

func TestStepGoesIdle(t *testing.T) {
	sim := New(newBodies(2))

	steps := 0
	for sim.Step() {
		steps++
		if steps > 1000 {
			t.Fatal("simulation never went idle")
		}
	}
	if steps < 295 || steps > 305 {
		t.Errorf("went idle after %d steps, want about 300", steps)
	}
	if sim.Running() {
		t.Error("Running() = true after idle")
	}
	if sim.Step() {
		t.Error("Step() advanced an idle simulation")
	}
}

func TestAlphaTargetKeepsRunning(t *testing.T) {
	sim := New(newBodies(2))
	sim.SetAlphaTarget(0.3)
	for i := 0; i < 2000; i++ {
		if !sim.Step() {
			t.Fatalf("simulation idled at step %d with alpha target 0.3", i)
		}
	}
	if math.Abs(sim.Alpha()-0.3) > 0.01 {
		t.Errorf("alpha = %v, want about 0.3", sim.Alpha())
	}

	sim.SetAlphaTarget(0)
	for i := 0; sim.Step(); i++ {
		if i > 5000 {
			t.Fatal("simulation did not cool after target reset")
		}
	}
}

func TestRestartResumesIdleSimulation(t *testing.T) {
	sim := New(newBodies(1))
	sim.Stop()
	if sim.Step() {
		t.Fatal("stopped simulation stepped")
	}
	sim.Restart()
	if !sim.Running() {
		t.Fatal("Restart did not resume")
	}
}

func TestPinnedBodyIsHeld(t *testing.T) {
	bodies := newBodies(3)
	bodies[0].Pin(5, 7)

	sim := New(bodies)
	sim.AddForce("charge", NewManyBody(-30))
	sim.Tick(50)

	b := sim.Body(0)
	if b.X != 5 || b.Y != 7 {
		t.Errorf("pinned body at (%v, %v), want (5, 7)", b.X, b.Y)
	}
	if b.VX != 0 || b.VY != 0 {
		t.Errorf("pinned body velocity (%v, %v), want zero", b.VX, b.VY)
	}

	b.Unpin()
	sim.Tick(5)
	if b.X == 5 && b.Y == 7 {
		t.Error("unpinned body did not move under repulsion")
	}
}

func TestCoincidentBodiesSeparate(t *testing.T) {
	bodies := newBodies(2)
	for i := range bodies {
		bodies[i].X, bodies[i].Y = 10, 10
	}

	sim := New(bodies)
	sim.AddForce("charge", NewManyBody(-30))
	sim.AddForce("link", NewLink([]Pair{{0, 1}}, 50))
	sim.Tick(20)

	for i, b := range sim.Bodies() {
		if math.IsNaN(b.X) || math.IsNaN(b.Y) || math.IsInf(b.X, 0) || math.IsInf(b.Y, 0) {
			t.Fatalf("body %d has non-finite position (%v, %v)", i, b.X, b.Y)
		}
	}
	if bodies[0].X == bodies[1].X && bodies[0].Y == bodies[1].Y {
		t.Error("coincident bodies were not separated")
	}
}

func TestLinkRelaxesTowardDistance(t *testing.T) {
	bodies := newBodies(2)
	bodies[0].X, bodies[0].Y = 0, 0
	bodies[1].X, bodies[1].Y = 10, 0

	sim := New(bodies)
	sim.AddForce("link", NewLink([]Pair{{0, 1}}, 100))
	for sim.Step() {
	}

	d := math.Hypot(bodies[1].X-bodies[0].X, bodies[1].Y-bodies[0].Y)
	if math.Abs(d-100) > 2 {
		t.Errorf("link length = %.2f, want about 100", d)
	}
}

func TestSameSeedSameTrajectory(t *testing.T) {
	run := func() []Body {
		bodies := newBodies(6)
		sim := New(bodies, WithSeed(7))
		sim.AddForce("charge", NewManyBody(-90))
		sim.AddForce("link", NewLink([]Pair{{0, 1}, {1, 2}, {3, 4}}, 40))
		sim.Tick(100)
		return bodies
	}

	a, b := run(), run()
	for i := range a {
		if a[i].X != b[i].X || a[i].Y != b[i].Y {
			t.Fatalf("body %d diverged: (%v, %v) vs (%v, %v)", i, a[i].X, a[i].Y, b[i].X, b[i].Y)
		}
	}
}

func TestForceRegistry(t *testing.T) {
	sim := New(newBodies(2))

	calls := 0
	sim.AddForce("custom", Func(func(alpha float64) { calls++ }))
	sim.Tick(3)
	if calls != 3 {
		t.Errorf("custom force applied %d times, want 3", calls)
	}

	sim.AddForce("custom", Func(func(alpha float64) {}))
	sim.Tick(1)
	if calls != 3 {
		t.Error("replaced force still applied")
	}

	if sim.Force("custom") == nil {
		t.Error("Force(custom) = nil")
	}
	sim.RemoveForce("custom")
	if sim.Force("custom") != nil {
		t.Error("force still registered after RemoveForce")
	}
}

func TestLinkStrengthFromDegree(t *testing.T) {
	l := NewLink([]Pair{{0, 1}, {0, 2}, {0, 3}}, 10)
	l.Init(newBodies(4), func() float64 { return 0 })

	for i := range l.pairs {
		if l.strengths[i] != 1 {
			t.Errorf("pair %d strength = %v, want 1 (leaf degree)", i, l.strengths[i])
		}
		if l.bias[i] != 0.75 {
			t.Errorf("pair %d bias = %v, want 0.75", i, l.bias[i])
		}
	}
}
