package diagram

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/graph"
)

// Point is a coordinate in viewport space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Anchor places a category's target point as a fraction of the viewport.
// (0, 0) is the top-left corner and (1, 1) the bottom-right.
type Anchor struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// AnchorLayout maps category tags to fractional anchor points.
type AnchorLayout map[string]Anchor

// DefaultAnchors returns the quadrant layout used by the built-in portfolio.
func DefaultAnchors() AnchorLayout {
	return AnchorLayout{
		graph.CategoryFrontend: {X: 0.25, Y: 0.25},
		graph.CategoryBackend:  {X: 0.75, Y: 0.25},
		graph.CategoryDevOps:   {X: 0.25, Y: 0.75},
		graph.CategoryTooling:  {X: 0.75, Y: 0.75},
	}
}

// Resolve converts the layout into pixel anchors for vp.
func (l AnchorLayout) Resolve(vp Viewport) map[string]Point {
	out := make(map[string]Point, len(l))
	for cat, a := range l {
		out[cat] = Point{X: a.X * vp.Width, Y: a.Y * vp.Height}
	}
	return out
}

// Validate rejects fractions outside [0, 1] and malformed category tags.
func (l AnchorLayout) Validate() error {
	for _, cat := range l.categories() {
		a := l[cat]
		if err := errors.ValidateCategory(cat); err != nil {
			return err
		}
		if cat == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "anchor with empty category")
		}
		if !inUnit(a.X) || !inUnit(a.Y) {
			return errors.New(errors.ErrCodeInvalidConfig,
				"anchor %q at (%g, %g): fractions must be within [0, 1]", cat, a.X, a.Y)
		}
	}
	return nil
}

// String lists the layout in sorted category order.
func (l AnchorLayout) String() string {
	s := ""
	for i, cat := range l.categories() {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%s=%g,%g", cat, l[cat].X, l[cat].Y)
	}
	return s
}

func (l AnchorLayout) categories() []string {
	cats := make([]string, 0, len(l))
	for cat := range l {
		cats = append(cats, cat)
	}
	slices.Sort(cats)
	return cats
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
