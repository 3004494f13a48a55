package render

import (
	"fmt"
	"image/color"
)

// Format names accepted by the CLI, the pipeline and the server.
const (
	FormatSVG    = "svg"
	FormatPNG    = "png"
	FormatDOTSVG = "dot-svg"
	FormatJSON   = "json"
)

// ValidFormats lists every export format.
var ValidFormats = map[string]bool{
	FormatSVG:    true,
	FormatPNG:    true,
	FormatDOTSVG: true,
	FormatJSON:   true,
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatDOTSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of a format, without the dot.
func Extension(format string) string {
	if format == FormatDOTSVG {
		return "dot.svg"
	}
	return format
}

// Style holds the colours and stroke widths of an export.
type Style struct {
	Background      color.RGBA
	Edge            color.RGBA
	EdgeOpacity     float64
	EdgeWidth       float64
	NodeStroke      color.RGBA
	NodeStrokeWidth float64
	Text            color.RGBA
	FontSize        float64
}

// DefaultStyle returns the landing page look.
func DefaultStyle() Style {
	return Style{
		Background:      color.RGBA{0xff, 0xff, 0xff, 0xff},
		Edge:            color.RGBA{0x99, 0x99, 0x99, 0xff},
		EdgeOpacity:     0.6,
		EdgeWidth:       2,
		NodeStroke:      color.RGBA{0x00, 0x00, 0x00, 0xff},
		NodeStrokeWidth: 2,
		Text:            color.RGBA{0x11, 0x11, 0x11, 0xff},
		FontSize:        12,
	}
}

// Option configures a renderer.
type Option func(*options)

type options struct {
	style  Style
	scale  float64
	labels bool
	icons  bool
}

func newOptions(opts []Option) options {
	o := options{style: DefaultStyle(), scale: 1, labels: true, icons: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 1
	}
	return o
}

// WithStyle replaces the default style.
func WithStyle(s Style) Option { return func(o *options) { o.style = s } }

// WithScale multiplies the raster size (PNG only).
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithoutLabels omits node names.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// WithoutIcons omits icon references from SVG output.
func WithoutIcons() Option { return func(o *options) { o.icons = false } }

func cssColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
