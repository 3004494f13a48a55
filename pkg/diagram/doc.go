// Package diagram drives an animated force-directed diagram of a small graph.
//
// The package turns a [graph.Graph] and a viewport size into a working scene,
// runs a [force.Simulation] over it, and produces a [Frame] per step that a
// renderer can paint without touching simulation state.
//
// # Pipeline
//
// Data flows one way:
//
//	Sizer ──► BuildScene ──► solver ──► Scene.Frame ──► renderer
//	                            ▲
//	              Hover / Drag ─┘ (pointer events)
//
// A [Sizer] reports viewport changes. [BuildScene] copies the input into an
// index-addressed arena of bodies and seeds category members on a circle
// around their anchor. The solver combines a link force, a many-body charge,
// and an optional group force that pulls nodes toward their category anchor.
// [Scene.Frame] clamps bodies into the viewport and computes edge segments
// shortened by the node radius.
//
// # Rebuilds
//
// Any change to the graph, the options, or the viewport discards the scene
// and its solver and builds new ones. Positions never leak across rebuilds.
// [Diagram] owns this lifecycle together with the hover timer and the active
// drag, and releases all three on every rebuild and on [Diagram.Close].
//
// # Interaction
//
// [Hover] moves Idle → Pending → Shown. The pending delay runs on a
// [Scheduler] whose callbacks are delivered on the caller's event loop, and
// every exit path cancels it. [Drag] pins a node to the pointer and reheats
// the solver until the pointer is released.
//
// # Concurrency
//
// Diagram, Scene and Hover are not safe for concurrent use. They are driven
// from one event loop, as the terminal UI does with bubbletea.
package diagram
