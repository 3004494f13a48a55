package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/fonts"
)

// RenderSVG writes f as a standalone SVG document.
//
// Nodes with an icon reference get an <image> centred in their ring; the
// label is drawn below the ring. Coordinates are rounded to whole pixels.
func RenderSVG(f diagram.Frame, opts ...Option) []byte {
	o := newOptions(opts)
	st := o.style
	w, h := px(f.Width), px(f.Height)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	canvas.Rect(0, 0, w, h, "fill:"+cssColor(st.Background))

	canvas.Gstyle(fmt.Sprintf("stroke:%s;stroke-opacity:%.2f;stroke-width:%.1f",
		cssColor(st.Edge), st.EdgeOpacity, st.EdgeWidth))
	for _, s := range f.Segments {
		canvas.Line(px(s.X1), px(s.Y1), px(s.X2), px(s.Y2))
	}
	canvas.Gend()

	r := px(f.Radius)
	icon := px(f.IconSize)
	ring := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.1f", cssColor(st.NodeStroke), st.NodeStrokeWidth)
	label := fmt.Sprintf("fill:%s;font-size:%.0fpx;font-family:%s;text-anchor:middle",
		cssColor(st.Text), st.FontSize, fonts.FontFamily)

	for _, n := range f.Nodes {
		x, y := px(n.X), px(n.Y)
		canvas.Gid(fmt.Sprintf("node-%d", n.ID))
		canvas.Title(n.Name)
		canvas.Circle(x, y, r, ring)
		if o.icons && n.Icon != "" {
			canvas.Image(x-icon/2, y-icon/2, icon, icon, n.Icon)
		}
		if o.labels {
			canvas.Text(x, y+r+int(math.Ceil(st.FontSize)), n.Name, label)
		}
		canvas.Gend()
	}

	canvas.End()
	return buf.Bytes()
}

func px(v float64) int { return int(math.Round(v)) }
