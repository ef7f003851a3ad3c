package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pkranz/memviz/pkg/cache"
	"github.com/pkranz/memviz/pkg/diagram"
	"github.com/pkranz/memviz/pkg/errors"
	"github.com/pkranz/memviz/pkg/layout"
	"github.com/pkranz/memviz/pkg/memory"
	"github.com/pkranz/memviz/pkg/observability"
	"github.com/pkranz/memviz/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Defaults is layered under every request's options, typically seeded
	// from the config file's layout and render sections. Explicit option
	// values always win.
	Defaults Options
}

// NewRunner creates a runner. A nil keyer gets the default key schema; a
// nil cache disables caching via NullCache.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete resolve → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}

	resolveStart := time.Now()
	g, resolveHit, err := r.ResolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.ObjectCount = g.Len()
	result.Stats.EdgeCount = len(g.Edges())
	result.CacheInfo.ResolveHit = resolveHit

	if data, err := diagram.Marshal(diagram.FromGraph(g)); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	r.Logger.Info("resolved declarations",
		"objects", result.Stats.ObjectCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ResolveTime)

	layoutStart := time.Now()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"positions", len(res),
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo resolves declarations with caching and reports
// whether the result came from cache.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, opts Options) (*memory.Graph, bool, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateForResolve(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.GraphKey(cache.Hash([]byte(opts.Source)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if d, err := diagram.Unmarshal(data); err == nil {
				if g, err := d.ToGraph(); err == nil {
					observability.Cache().OnCacheHit(ctx, "graph")
					return g, true, nil
				}
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	start := time.Now()
	observability.Pipeline().OnResolveStart(ctx, len(opts.Source))
	g, err := memory.Resolve(opts.Source)
	count := 0
	if g != nil {
		count = g.Len()
	}
	observability.Pipeline().OnResolveComplete(ctx, count, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if !opts.Refresh {
		if data, err := diagram.Marshal(diagram.FromGraph(g)); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.GraphTTL)
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	return g, false, nil
}

// Resolve is a convenience wrapper that discards the cache hit info.
func (r *Runner) Resolve(ctx context.Context, opts Options) (*memory.Graph, error) {
	g, _, err := r.ResolveWithCacheInfo(ctx, opts)
	return g, err
}

// ComputeLayoutWithCacheInfo computes a layout with caching and reports
// whether the result came from cache.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, g *memory.Graph, opts Options) (layout.Result, bool, error) {
	r.applyDefaults(&opts)
	opts.SetLayoutDefaults()

	graphData, err := diagram.Marshal(diagram.FromGraph(g))
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(graphData), opts.LayoutKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached layout.Result
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, nil
		}
		// Corrupt entry, fall through to recompute.
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, g.Len())
	res := layout.New(opts.LayoutOptions()).Layout(g)
	observability.Pipeline().OnLayoutComplete(ctx, time.Since(start), nil)

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	return res, false, nil
}

// ComputeLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, g *memory.Graph, opts Options) (layout.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, g, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *memory.Graph, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyDefaults(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(res)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	allCached := true
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}
	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.VizType, opts.Formats)
	rendered, err := r.renderFormats(ctx, g, res, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.VizType, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *memory.Graph, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, res, opts)
	return artifacts, err
}

func (r *Runner) renderFormats(ctx context.Context, g *memory.Graph, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	boxOpts := render.BoxesOptions{CharWidth: opts.CharWidth, Padding: opts.Padding}

	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			data, err := diagram.Marshal(diagram.FromGraph(g).WithLayout(res))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize diagram")
			}
			artifacts[format] = data

		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(g))

		case FormatSVG:
			if opts.VizType == VizTypeNodelink {
				data, err := render.RenderSVG(ctx, render.ToDOT(g))
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
				}
				artifacts[format] = data
			} else {
				artifacts[format] = render.BoxesSVG(g, res, boxOpts)
			}

		case FormatPNG:
			data, err := render.RenderPNG(ctx, render.ToDOT(g))
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "render png")
			}
			artifacts[format] = data
		}
	}
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyDefaults layers the runner's configured defaults under the request
// options and ensures a logger is set.
func (r *Runner) applyDefaults(opts *Options) {
	opts.ApplyDefaults(r.Defaults)
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
