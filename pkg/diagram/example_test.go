package diagram_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/graph"
)

// noTimers never fires; nothing hovers in this example.
type noTimers struct{}

func (noTimers) After(time.Duration, func()) func() { return func() {} }

func Example() {
	d, err := diagram.New(graph.Portfolio(), diagram.DefaultOptions(), noTimers{}, nil)
	if err != nil {
		panic(err)
	}
	defer d.Close()

	if err := d.Resize(800, 600); err != nil {
		panic(err)
	}
	for d.Step() {
	}

	f, _ := d.Frame()
	fmt.Println(len(f.Nodes), "nodes,", len(f.Segments), "segments, radius", f.Radius)
	// Output:
	// 17 nodes, 32 segments, radius 35
}
