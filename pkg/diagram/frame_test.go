package diagram

import (
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/folio/pkg/graph"
)

func twoNodeScene(t *testing.T) *Scene {
	t.Helper()
	g := graph.Graph{
		Nodes: []graph.Node{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}},
		Edges: []graph.Edge{{Source: 1, Target: 2}},
	}
	s, err := BuildScene(g, Viewport{Width: 400, Height: 300}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFrameBoundsInvariant(t *testing.T) {
	for _, compact := range []bool{false, true} {
		opts := DefaultOptions()
		opts.Compact = compact

		d, err := New(graph.Portfolio(), opts, &fakeScheduler{}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := d.Resize(320, 240); err != nil {
			t.Fatal(err)
		}

		r := opts.NodeRadius()
		for step := 0; step < 400; step++ {
			d.Step()
			f, ok := d.Frame()
			if !ok {
				t.Fatal("diagram inactive")
			}
			for _, n := range f.Nodes {
				if n.X < r || n.X > f.Width-r || n.Y < r || n.Y > f.Height-r {
					t.Fatalf("compact=%v step %d: %s at (%v, %v) outside bounds r=%v", compact, step, n.Name, n.X, n.Y, r)
				}
			}
		}
	}
}

func TestFrameIsIdempotent(t *testing.T) {
	d, err := New(graph.Portfolio(), DefaultOptions(), &fakeScheduler{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Resize(800, 600); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		d.Step()
	}

	a, _ := d.Frame()
	b, _ := d.Frame()
	if !reflect.DeepEqual(a, b) {
		t.Error("repeated Frame without a step changed the geometry")
	}
}

func TestFrameShortensSegments(t *testing.T) {
	s := twoNodeScene(t)
	s.Bodies[0].X, s.Bodies[0].Y = 100, 100
	s.Bodies[1].X, s.Bodies[1].Y = 200, 100

	f := s.Frame()
	r := DefaultOptions().NodeRadius()
	if r != 35 {
		t.Fatalf("node radius = %v, want 35", r)
	}

	seg := f.Segments[0]
	want := Segment{Source: 1, Target: 2, X1: 135, Y1: 100, X2: 165, Y2: 100}
	if seg != want {
		t.Errorf("segment = %+v, want %+v", seg, want)
	}
}

func TestFrameCoincidentEndpoints(t *testing.T) {
	s := twoNodeScene(t)
	for i := range s.Bodies {
		s.Bodies[i].X, s.Bodies[i].Y = 150, 150
	}

	seg := s.Frame().Segments[0]
	for _, v := range []float64{seg.X1, seg.Y1, seg.X2, seg.Y2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("segment has non-finite coordinate: %+v", seg)
		}
	}
	if seg.X1 != 150 || seg.X2 != 150 || seg.Y1 != 150 || seg.Y2 != 150 {
		t.Errorf("coincident segment = %+v, want zero offset", seg)
	}
}

func TestFrameClampsUndefinedAndOutside(t *testing.T) {
	s := twoNodeScene(t)
	s.Bodies[0].X, s.Bodies[0].Y = math.NaN(), -50
	s.Bodies[1].X, s.Bodies[1].Y = 1e6, 1e6

	f := s.Frame()
	if f.Nodes[0].X != 35 || f.Nodes[0].Y != 35 {
		t.Errorf("node 0 at (%v, %v), want (35, 35)", f.Nodes[0].X, f.Nodes[0].Y)
	}
	if f.Nodes[1].X != 365 || f.Nodes[1].Y != 265 {
		t.Errorf("node 1 at (%v, %v), want (365, 265)", f.Nodes[1].X, f.Nodes[1].Y)
	}
	if s.Bodies[1].X != 365 {
		t.Error("clamp did not write back into the scene")
	}
}

func TestFrameNodeAt(t *testing.T) {
	s := twoNodeScene(t)
	s.Bodies[0].X, s.Bodies[0].Y = 100, 100
	s.Bodies[1].X, s.Bodies[1].Y = 120, 100
	f := s.Frame()

	if i, ok := f.NodeAt(110, 100); !ok || i != 1 {
		t.Errorf("NodeAt overlap = %d, %v; want topmost node 1", i, ok)
	}
	if _, ok := f.NodeAt(300, 250); ok {
		t.Error("NodeAt hit empty space")
	}
}
