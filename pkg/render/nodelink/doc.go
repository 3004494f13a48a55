// Package nodelink renders settled diagrams through Graphviz.
//
// # Overview
//
// The force layout decides where nodes go; Graphviz only draws them. [ToDOT]
// emits an undirected graph whose nodes are pinned at their frame positions,
// and [RenderSVG] runs neato over it in-process.
//
//	dot := nodelink.ToDOT(frame, nodelink.Options{Labels: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The DOT source is also useful on its own for further processing with the
// Graphviz command line tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system installation is needed.
package nodelink
