package cli

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/matzehuels/folio/pkg/diagram"
)

// A terminal cell is about twice as tall as it is wide. The diagram works in
// pixels; one column spans cellWidth of them and one row cellHeight.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// toCell maps a diagram point to the cell that contains it.
func toCell(x, y float64) (col, row int) {
	return int(math.Floor(x / cellWidth)), int(math.Floor(y / cellHeight))
}

// toPixel maps a cell to the diagram point at its centre.
func toPixel(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * cellWidth, (float64(row) + 0.5) * cellHeight
}

// ink selects the style a cell is painted with.
type ink uint8

const (
	inkNone ink = iota
	inkEdge
	inkNode
	inkActive
	inkTooltip
)

// canvas is a fixed grid of styled runes.
type canvas struct {
	cols, rows int
	runes      []rune
	inks       []ink
	colors     []lipgloss.Color // per-cell node color, used with inkNode
}

func newCanvas(cols, rows int) *canvas {
	cols, rows = max(cols, 0), max(rows, 0)
	n := cols * rows
	return &canvas{
		cols:   cols,
		rows:   rows,
		runes:  make([]rune, n),
		inks:   make([]ink, n),
		colors: make([]lipgloss.Color, n),
	}
}

func (c *canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *canvas) set(col, row int, r rune, k ink, color lipgloss.Color) {
	if !c.inside(col, row) {
		return
	}
	i := row*c.cols + col
	c.runes[i], c.inks[i], c.colors[i] = r, k, color
}

func (c *canvas) at(col, row int) rune {
	if !c.inside(col, row) {
		return 0
	}
	return c.runes[row*c.cols+col]
}

// line draws a dotted segment between two diagram points, leaving occupied
// cells alone.
func (c *canvas) line(x1, y1, x2, y2 float64) {
	c0, r0 := toCell(x1, y1)
	c1, r1 := toCell(x2, y2)

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for {
		if c.at(c0, r0) == 0 {
			c.set(c0, r0, '·', inkEdge, "")
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dr {
			e += dr
			c0 += sc
		}
		if e2 <= dc {
			e += dc
			r0 += sr
		}
	}
}

// text writes s starting at (col, row), clipped to the canvas.
func (c *canvas) text(col, row int, s string, k ink, color lipgloss.Color) {
	for _, r := range s {
		c.set(col, row, r, k, color)
		col++
	}
}

// centered writes s centered on col, shifted to stay inside the canvas.
func (c *canvas) centered(col, row int, s string, k ink, color lipgloss.Color) {
	w := ansi.StringWidth(s)
	start := col - w/2
	start = min(start, c.cols-w)
	start = max(start, 0)
	c.text(start, row, s, k, color)
}

// String renders the canvas, one styled run per change of ink.
func (c *canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		var run strings.Builder
		start := row * c.cols
		flush := func(i int) {
			if run.Len() > 0 {
				b.WriteString(c.style(i).Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < c.cols; col++ {
			i := start + col
			if col > 0 && (c.inks[i] != c.inks[i-1] || c.colors[i] != c.colors[i-1]) {
				flush(i - 1)
			}
			r := c.runes[i]
			if r == 0 {
				r = ' '
			}
			run.WriteRune(r)
		}
		flush(start + c.cols - 1)
	}
	return b.String()
}

func (c *canvas) style(i int) lipgloss.Style {
	switch c.inks[i] {
	case inkEdge:
		return styleEdge
	case inkNode:
		return lipgloss.NewStyle().Foreground(c.colors[i])
	case inkActive:
		return lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(c.colors[i])
	case inkTooltip:
		return styleTooltip
	default:
		return lipgloss.NewStyle()
	}
}

var (
	styleEdge    = lipgloss.NewStyle().Foreground(colorDim)
	styleTooltip = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236"))
)

// maxLabel bounds node labels on the canvas.
const maxLabel = 14

// paintFrame draws edges, nodes and the tooltip of one frame. active is the
// index of the dragged or hovered node, or -1.
func paintFrame(c *canvas, f diagram.Frame, active int, tip *tooltipView) {
	for _, s := range f.Segments {
		c.line(s.X1, s.Y1, s.X2, s.Y2)
	}
	for i, n := range f.Nodes {
		col, row := toCell(n.X, n.Y)
		label := "● " + ansi.Truncate(n.Name, maxLabel, "…")
		k := inkNode
		if i == active {
			k = inkActive
		}
		c.centered(col, row, label, k, categoryColor(n.Category))
	}
	if tip != nil {
		col, row := toCell(tip.X, tip.Y)
		lines := []string{" " + tip.Title + " ", " " + tip.Detail + " "}
		w := 0
		for _, l := range lines {
			w = max(w, ansi.StringWidth(l))
		}
		col = max(min(col, c.cols-w), 0)
		row = max(min(row, c.rows-len(lines)), 0)
		for i, l := range lines {
			c.text(col, row+i, l+strings.Repeat(" ", w-ansi.StringWidth(l)), inkTooltip, "")
		}
	}
}

// tooltipView is the tooltip text at its diagram position.
type tooltipView struct {
	X, Y          float64
	Title, Detail string
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
