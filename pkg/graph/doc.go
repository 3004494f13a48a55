// Package graph defines the logical input of a diagram: labeled nodes,
// the edges between them, and the categories that group them.
//
// A [Graph] is immutable input. Scene building in pkg/diagram copies it into a
// working arena and never writes back, so the same Graph value can be shared by
// the interactive view, static exports, and the HTTP server.
//
// # Integrity
//
// [Graph.Validate] fails fast on configuration errors: duplicate node ids and
// edges whose endpoint ids are not present in the node set. An edge that
// outlives one of its endpoints (for example after a config reload removes a
// node) is rejected rather than silently dropped.
//
// # Built-in dataset
//
// [Portfolio] returns the default technology map: four buckets (frontend,
// backend, devops, tooling), every pair of nodes inside a bucket connected.
// [FullyConnect] builds the same shape from any bucket list.
package graph
