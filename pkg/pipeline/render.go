package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/observability"
	"github.com/matzehuels/folio/pkg/render"
	"github.com/matzehuels/folio/pkg/render/nodelink"
)

// RenderFrame paints a settled frame in each of opts.Formats.
func RenderFrame(ctx context.Context, f diagram.Frame, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	var style []render.Option
	if opts.NoLabels {
		style = append(style, render.WithoutLabels())
	}

	artifacts = make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error
		switch format {
		case render.FormatSVG:
			data = render.RenderSVG(f, style...)
		case render.FormatPNG:
			data, err = render.RenderPNG(f, append(style, render.WithScale(opts.Scale))...)
		case render.FormatDOTSVG:
			data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(f, nodelink.Options{Labels: !opts.NoLabels}))
		case render.FormatJSON:
			data, err = render.RenderJSON(f)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
