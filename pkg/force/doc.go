// Package force implements an iterative force-directed layout engine.
//
// A [Simulation] owns an index-addressable slice of [Body] values and advances
// them one step at a time. Each step cools the global energy term (alpha)
// toward its target, lets every registered [Force] adjust body velocities, and
// then integrates velocities into positions with friction. Bodies with a pin
// (FX/FY) are held exactly at the pinned coordinate on that axis.
//
// The engine mirrors the semantics of the d3-force family: alpha starts at 1,
// decays geometrically so that it crosses AlphaMin after roughly 300 steps, and
// the simulation goes idle once alpha drops below AlphaMin. Raising the alpha
// target (for example while a body is being dragged) keeps it warm.
//
// # Forces
//
//   - [Link]: spring toward a rest length between connected bodies
//   - [ManyBody]: pairwise repulsion (negative strength) or attraction
//   - [Func]: adapter for ad hoc forces such as category clustering
//
// # Determinism
//
// Coincident bodies are separated with a tiny random jiggle drawn from a
// seeded PCG source, so two simulations built with the same seed and inputs
// produce identical trajectories.
//
// # Example
//
//	bodies := make([]force.Body, 3)
//	for i := range bodies {
//	    bodies[i] = force.NewBody()
//	}
//	sim := force.New(bodies, force.WithSeed(42))
//	sim.AddForce("link", force.NewLink([]force.Pair{{0, 1}, {1, 2}}, 100))
//	sim.AddForce("charge", force.NewManyBody(-30))
//	for sim.Step() {
//	}
package force
