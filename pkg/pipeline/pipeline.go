// Package pipeline settles diagrams and renders them to static exports.
//
// This package implements the settle → render pipeline shared by the
// `render` command and the export server. By centralizing it, both entry
// points cache, log and validate the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Settle: build a scene for the requested viewport and run the solver
//     until it goes idle or hits MaxIterations
//  2. Render: paint the settled frame in each requested format
//
// The solver is seeded, so a graph and its options always settle to the same
// frame. Rendered artifacts are therefore cached by graph hash and options.
// Live layouts are never stored.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Render(ctx, g, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default frame height in pixels.
	DefaultHeight = 800.0

	// DefaultMaxIterations bounds the settle loop. The solver normally goes
	// idle after about 300 steps.
	DefaultMaxIterations = 600

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0

	// DefaultTTL is how long rendered artifacts stay cached.
	DefaultTTL = 24 * time.Hour
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one export.
type Options struct {
	// Settle options
	Width         float64         `json:"width,omitempty"`
	Height        float64         `json:"height,omitempty"`
	Compact       bool            `json:"compact,omitempty"`
	MaxIterations int             `json:"max_iterations,omitempty"`
	Diagram       diagram.Options `json:"-"` // zero value means diagram.DefaultOptions

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`

	// Cache options
	Refresh bool          `json:"refresh,omitempty"`
	TTL     time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// SceneID is the generation id of the scene that produced the artifacts.
	SceneID string

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Frame is the settled frame. It is empty when every artifact came
	// from the cache.
	Frame diagram.Frame

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Steps      int
	SettleTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := errors.ValidateFormat(f, render.ValidFormats); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateViewport(o.Width, o.Height); err != nil {
		return err
	}
	if o.MaxIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max iterations must not be negative")
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g out of range (0, 8]", o.Scale)
	}
	if slices.Contains(o.Formats, render.FormatPNG) {
		if err := errors.ValidateRaster(o.Width, o.Height, o.Scale); err != nil {
			return err
		}
	}
	if o.Diagram.LinkDistance == 0 {
		o.Diagram = diagram.DefaultOptions()
	}
	if o.Compact {
		o.Diagram.Compact = true
	}
	if err := o.Diagram.Anchors.Validate(); err != nil {
		return err
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Viewport returns the requested frame size.
func (o *Options) Viewport() diagram.Viewport {
	return diagram.Viewport{Width: o.Width, Height: o.Height}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:       format,
		Width:        o.Width,
		Height:       o.Height,
		Compact:      o.Diagram.Compact,
		Seed:         o.Diagram.Seed,
		OptionsHash:  o.optionsHash(),
		MaxIteration: o.MaxIterations,
	}
}

// optionsHash covers the tuning and render flags that do not have their own
// key field.
func (o *Options) optionsHash() string {
	d := o.Diagram
	return cache.Hash(fmt.Appendf(nil, "%g|%g|%g|%g|%g|%g|%s|%g|%t",
		d.LinkDistance, d.Charge, d.GroupPull, d.SpawnRadius, d.IconSize, d.Margin,
		d.Anchors, o.Scale, o.NoLabels))
}
