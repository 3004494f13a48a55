package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/pipeline"
	"github.com/matzehuels/folio/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "png", "dot-svg", "json"
	width    float64  // frame width in pixels
	height   float64  // frame height in pixels
	compact  bool     // compact icons
	scale    float64  // PNG pixel density
	noLabels bool     // omit node labels
	maxIter  int      // settle step budget
	noCache  bool     // bypass the artifact cache
	refresh  bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command for static exports.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:   pipeline.DefaultWidth,
		height:  pipeline.DefaultHeight,
		scale:   pipeline.DefaultScale,
		maxIter: pipeline.DefaultMaxIterations,
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Settle the diagram and export it",
		Long: `Settle the diagram off-screen and write it as SVG, PNG, Graphviz SVG (dot-svg)
or a JSON snapshot. The layout is seeded, so the same config always produces
the same files; results are cached.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot-svg, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "frame width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "frame height")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "use compact icons")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.noLabels, "no-labels", false, "omit node labels")
	cmd.Flags().IntVar(&opts.maxIter, "max-iterations", opts.maxIter, "maximum solver steps")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, _, err := c.config()
	if err != nil {
		return err
	}
	dopts, err := cfg.Options()
	if err != nil {
		return err
	}
	ttl, err := cfg.CacheTTL()
	if err != nil {
		return err
	}

	paths, err := outputPaths(opts.output, opts.formats)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache, nil)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Settling diagram...")
	spinner.Start()
	result, err := runner.Render(ctx, cfg.Graph(), pipeline.Options{
		Width:         opts.width,
		Height:        opts.height,
		Compact:       opts.compact || dopts.Compact,
		MaxIterations: opts.maxIter,
		Diagram:       dopts,
		Formats:       opts.formats,
		Scale:         opts.scale,
		NoLabels:      opts.noLabels,
		Refresh:       opts.refresh,
		TTL:           ttl,
		Logger:        logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		if err := os.WriteFile(paths[format], result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", strings.Join(opts.formats, ", "))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Steps, result.CacheHit)
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	prog.done(fmt.Sprintf("Rendered scene %s", result.SceneID))
	return nil
}

// outputPaths maps each format to its file. A single format writes to output
// as given; several formats share output's base name with per-format
// extensions. An empty output uses "folio".
func outputPaths(output string, formats []string) (map[string]string, error) {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		if err := errors.ValidatePath(output); err != nil {
			return nil, err
		}
		paths[formats[0]] = output
		return paths, nil
	}

	base := output
	if base == "" {
		base = appName
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		p := base + "." + render.Extension(f)
		if err := errors.ValidatePath(p); err != nil {
			return nil, err
		}
		paths[f] = p
	}
	return paths, nil
}
