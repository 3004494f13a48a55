package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/diagram"
	"github.com/matzehuels/folio/pkg/errors"
	"github.com/matzehuels/folio/pkg/graph"
	"github.com/matzehuels/folio/pkg/observability"
)

// sceneIDFormat keys the scene id stored next to a set of cached artifacts.
const sceneIDFormat = "scene-id"

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the export server use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render runs the settle → render pipeline for g with caching.
func (r *Runner) Render(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	result := &Result{
		GraphHash: cache.Hash(graphData),
		Artifacts: make(map[string][]byte),
		Stats:     Stats{NodeCount: len(g.Nodes), EdgeCount: len(g.Edges)},
	}

	if !opts.Refresh {
		if r.fromCache(ctx, result, opts) {
			opts.Logger.Info("served from cache", "formats", opts.Formats, "graph", result.GraphHash[:12])
			return result, nil
		}
	}

	settleStart := time.Now()
	frame, steps, err := Settle(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.SceneID = frame.SceneID
	result.Stats.Steps = steps
	result.Stats.SettleTime = time.Since(settleStart)

	opts.Logger.Info("settled diagram",
		"nodes", len(frame.Nodes),
		"steps", steps,
		"duration", result.Stats.SettleTime)

	renderStart := time.Now()
	artifacts, err := RenderFrame(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, result, opts)
	return result, nil
}

// fromCache fills result when every requested format and the scene id are
// cached. A partial hit counts as a miss.
func (r *Runner) fromCache(ctx context.Context, result *Result, opts Options) bool {
	hooks := observability.Cache()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range append([]string{sceneIDFormat}, opts.Formats...) {
		key := r.Keyer.ArtifactKey(result.GraphHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "key", key, "error", err)
		}
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return false
		}
		artifacts[format] = data
	}
	hooks.OnCacheHit(ctx, "artifact")

	result.SceneID = string(artifacts[sceneIDFormat])
	delete(artifacts, sceneIDFormat)
	result.Artifacts = artifacts
	result.CacheHit = true
	return true
}

// store writes every artifact and the scene id. Cache failures are logged,
// never returned.
func (r *Runner) store(ctx context.Context, result *Result, opts Options) {
	entries := make(map[string][]byte, len(result.Artifacts)+1)
	for format, data := range result.Artifacts {
		entries[format] = data
	}
	entries[sceneIDFormat] = []byte(result.SceneID)

	for format, data := range entries {
		key := r.Keyer.ArtifactKey(result.GraphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// Settle runs Settle with the runner's logger.
func (r *Runner) Settle(ctx context.Context, g graph.Graph, opts Options) (diagram.Frame, int, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	return Settle(ctx, g, opts)
}

// Settle lays out g in the requested viewport and returns the clamped frame
// and the number of solver steps taken. The loop stops when the solver goes
// idle or after MaxIterations steps, and checks ctx between steps.
func Settle(ctx context.Context, g graph.Graph, opts Options) (f diagram.Frame, steps int, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return diagram.Frame{}, 0, err
	}

	hooks := observability.Render()
	hooks.OnSettleStart(ctx, len(g.Nodes))
	start := time.Now()
	defer func() { hooks.OnSettleComplete(ctx, steps, time.Since(start), err) }()

	d, err := diagram.New(g, opts.Diagram, noTimers{}, opts.Logger)
	if err != nil {
		return diagram.Frame{}, 0, err
	}
	defer d.Close()

	if err := d.Resize(opts.Width, opts.Height); err != nil {
		return diagram.Frame{}, 0, err
	}
	for steps < opts.MaxIterations {
		if err := ctx.Err(); err != nil {
			return diagram.Frame{}, steps, err
		}
		running := d.Step()
		steps++
		if !running {
			break
		}
	}

	f, _ = d.Frame()
	return f, steps, nil
}

// noTimers backs the hover state of an offline diagram, which never sees a
// pointer.
type noTimers struct{}

func (noTimers) After(time.Duration, func()) func() { return func() {} }
