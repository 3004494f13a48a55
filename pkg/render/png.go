package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/fonts"
)

// RenderPNG rasterizes f. Icons are not loaded; each ring shows the node
// name instead. WithScale sets the pixel density (default 1).
func RenderPNG(f diagram.Frame, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	st := o.style

	w, h := px(f.Width*o.scale), px(f.Height*o.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("empty frame %gx%g", f.Width, f.Height)
	}

	dc := gg.NewContext(w, h)
	dc.Scale(o.scale, o.scale)
	dc.SetColor(st.Background)
	dc.Clear()

	dc.SetLineWidth(st.EdgeWidth)
	edge := st.Edge
	edge.A = uint8(st.EdgeOpacity * 255)
	dc.SetColor(edge)
	for _, s := range f.Segments {
		dc.DrawLine(s.X1, s.Y1, s.X2, s.Y2)
		dc.Stroke()
	}

	if o.labels {
		face, err := fonts.Face(st.FontSize)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
	}

	for _, n := range f.Nodes {
		dc.SetColor(st.NodeStroke)
		dc.SetLineWidth(st.NodeStrokeWidth)
		dc.DrawCircle(n.X, n.Y, f.Radius)
		dc.Stroke()

		if o.labels {
			dc.SetColor(st.Text)
			dc.DrawStringWrapped(n.Name, n.X, n.Y, 0.5, 0.5, 2*f.Radius-6, 1.1, gg.AlignCenter)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
