package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/folio/pkg/diagram"
)

// pointsPerInch converts frame pixels to Graphviz inches for node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// Labels draws node names inside the circles. When false the circles
	// are empty and the name is only kept as a tooltip.
	Labels bool
}

// ToDOT converts a settled frame into an undirected Graphviz graph.
//
// Every node is pinned at its frame position (pos="x,y!") with inputscale=72,
// so neato keeps the force layout instead of computing its own. The y axis
// is flipped because Graphviz grows upward.
func ToDOT(f diagram.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	fmt.Fprintf(&buf, "  bb=\"0,0,%s,%s\";\n", num(f.Width), num(f.Height))
	fmt.Fprintf(&buf, "  node [shape=circle, fixedsize=true, width=%s, style=filled, fillcolor=white, color=black, penwidth=2, fontsize=10];\n",
		num(2*f.Radius/pointsPerInch))
	buf.WriteString("  edge [color=\"#99999999\", penwidth=2];\n")
	buf.WriteString("\n")

	for _, n := range f.Nodes {
		label := ""
		if opts.Labels {
			label = n.Name
		}
		fmt.Fprintf(&buf, "  n%d [label=%q, tooltip=%q, pos=\"%s,%s!\"];\n",
			n.ID, label, n.Name, num(n.X), num(f.Height-n.Y))
	}

	buf.WriteString("\n")
	for _, s := range f.Segments {
		fmt.Fprintf(&buf, "  n%d -- n%d;\n", s.Source, s.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG with the neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag so the document scales
// from its viewBox and carries no pt units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAllLiteral(svg, []byte(newSvg))
}
