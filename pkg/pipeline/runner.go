package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/albumgrid/pkg/album"
	"github.com/matzehuels/albumgrid/pkg/cache"
	"github.com/matzehuels/albumgrid/pkg/grouped"
	"github.com/matzehuels/albumgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log output is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, a *album.Album, opts Options) (*Result, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	opts.ApplyAlbum(a)
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Album:     a,
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	sizes := a.Sizes()
	res, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, sizes, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.SizesHash, _ = cache.HashJSON(sizes)
	result.Stats.Items = len(res.Items)
	result.Stats.Strategy = res.Strategy
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"album", a.Name,
		"items", len(res.Items),
		"strategy", res.Strategy,
		"size", fmt.Sprintf("%gx%g", res.Width, res.Height),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, a.SourcePaths(a.BaseDir()), opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, sizes []grouped.Size, opts Options) (grouped.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return grouped.Result{}, false, err
	}

	sizesHash, err := cache.HashJSON(sizes)
	if err != nil {
		return grouped.Result{}, false, err
	}
	cacheKey := r.Keyer.LayoutKey(sizesHash, opts.LayoutKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, ok := r.cachedLayout(ctx, cacheKey); ok {
			return cached, true, nil
		}
	}

	res, err := ComputeLayout(ctx, sizes, opts)
	if err != nil {
		return grouped.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, "layout", cacheKey, data, cache.TTLLayout)
	}
	return res, false, nil
}

// ComputeLayout is a convenience wrapper that calls
// ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, sizes []grouped.Size, opts Options) (grouped.Result, error) {
	res, _, err := r.ComputeLayoutWithCacheInfo(ctx, sizes, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. The hit is reported only when every requested format came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res grouped.Result, paths []string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutHash, err := cache.HashJSON(res)
	if err != nil {
		return nil, false, fmt.Errorf("hash layout for cache key: %w", err)
	}
	var sources string
	if hasAny(paths) {
		sources, _ = cache.HashJSON(paths)
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, sources))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, res, paths, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format, sources))
		r.store(ctx, "artifact", cacheKey, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res grouped.Result, paths []string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, paths, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedLayout loads a layout from cache. Backend errors and undecodable
// entries are treated as misses.
func (r *Runner) cachedLayout(ctx context.Context, key string) (grouped.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return grouped.Result{}, false
	}

	var res grouped.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.Logger.Debug("discarding undecodable cache entry", "key", key, "error", err)
		observability.Cache().OnCacheMiss(ctx, "layout")
		return grouped.Result{}, false
	}
	observability.Cache().OnCacheHit(ctx, "layout")
	return res, true
}

// store writes a cache entry. Write failures are logged and otherwise
// ignored; the computed value is still returned to the caller.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
