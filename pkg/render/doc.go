// Package render paints settled diagram frames into static formats.
//
// # Overview
//
// Every renderer consumes a [diagram.Frame]: clamped node positions and edge
// segments already shortened to the node boundary. Renderers never touch the
// solver, so the same frame always produces the same bytes.
//
//   - [RenderSVG] writes an SVG document with github.com/ajstarks/svgo
//   - [RenderPNG] rasterizes with github.com/fogleman/gg and the Go font
//   - [RenderJSON] writes the frame itself as JSON
//
// Graphviz output lives in the [nodelink] subpackage, which feeds the settled
// positions to neato as pinned coordinates.
//
//	f := d.Frame()
//	svg := render.RenderSVG(f)
//	png, err := render.RenderPNG(f, render.WithScale(2))
//
// # Style
//
// [DefaultStyle] mirrors the landing page: a white surface, grey
// half-transparent edges, and black node rings.
//
// [nodelink]: github.com/matzehuels/folio/pkg/render/nodelink
package render
