package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineplanner/pkg/bulletin"
	"github.com/matzehuels/lineplanner/pkg/cache"
	"github.com/matzehuels/lineplanner/pkg/floor"
	"github.com/matzehuels/lineplanner/pkg/line"
	"github.com/matzehuels/lineplanner/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeOperations = "operations"
	keyTypeLayout     = "layout"
	keyTypeArtifact   = "artifact"
)

// Runner executes pipeline stages with caching. Both CLI and API use it.
//
// The Runner holds no pipeline results; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the default keyer and a nil
// cache disables caching.
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

// Execute runs normalize, layout and render on grid.
func (r *Runner) Execute(ctx context.Context, grid bulletin.Grid, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{Stats: Stats{Rows: len(grid)}}

	// Stage 1: Normalize
	start := time.Now()
	ops, hit, err := r.NormalizeWithCacheInfo(ctx, grid, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Operations = ops
	result.OperationsHash = cache.HashJSON(ops)
	result.Stats.Operations = len(ops)
	result.Stats.NormalizeTime = time.Since(start)
	result.CacheInfo.NormalizeHit = hit
	result.Requirements, result.Summary = Plan(ops, opts.TargetOutput, opts.WorkingHours)
	result.Dropped = floor.Dropped(ops)

	r.Logger.Info("normalized bulletin",
		"operations", len(ops),
		"duration", result.Stats.NormalizeTime)
	if len(result.Dropped) > 0 {
		r.Logger.Warn("sections without a layout template are not placed", "sections", result.Dropped)
	}

	// Stage 2: Layout
	start = time.Now()
	layout, hit, err := r.LayoutWithCacheInfo(ctx, ops, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.Instances = len(layout.Instances)
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit

	r.Logger.Info("generated layout",
		"instances", len(layout.Instances),
		"takt", fmt.Sprintf("%.3f", layout.TaktTime),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// NormalizeWithCacheInfo normalizes grid and reports whether the result
// came from cache. Parse failures are never cached.
func (r *Runner) NormalizeWithCacheInfo(ctx context.Context, grid bulletin.Grid, opts Options) ([]line.Operation, bool, error) {
	observability.Pipeline().OnNormalizeStart(ctx, len(grid))
	start := time.Now()

	key := r.Keyer.OperationsKey(GridHash(grid))
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, keyTypeOperations, key); ok {
			if ops, err := line.ReadOperations(bytes.NewReader(data)); err == nil {
				observability.Pipeline().OnNormalizeComplete(ctx, len(ops), time.Since(start), nil)
				return ops, true, nil
			}
		}
	}

	ops, err := Normalize(grid)
	observability.Pipeline().OnNormalizeComplete(ctx, len(ops), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if data, err := line.MarshalOperations(ops); err == nil {
		r.store(ctx, keyTypeOperations, key, data, cache.TTLOperations)
	}
	return ops, false, nil
}

// Normalize discards the cache hit info of NormalizeWithCacheInfo.
func (r *Runner) Normalize(ctx context.Context, grid bulletin.Grid, opts Options) ([]line.Operation, error) {
	ops, _, err := r.NormalizeWithCacheInfo(ctx, grid, opts)
	return ops, err
}

// LayoutWithCacheInfo generates a layout and reports whether it came from
// cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, ops []line.Operation, opts Options) (line.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return line.Layout{}, false, err
	}
	observability.Pipeline().OnLayoutStart(ctx, len(ops), opts.TargetOutput, opts.WorkingHours)
	start := time.Now()

	key := r.Keyer.LayoutKey(cache.HashJSON(ops), opts.LayoutKeyOpts())
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, keyTypeLayout, key); ok {
			if l, err := line.UnmarshalLayout(data); err == nil {
				observability.Pipeline().OnLayoutComplete(ctx, len(l.Instances), time.Since(start), nil)
				return l, true, nil
			}
		}
	}

	l := GenerateLayout(ops, opts)
	observability.Pipeline().OnLayoutComplete(ctx, len(l.Instances), time.Since(start), nil)
	if data, err := line.MarshalLayout(l); err == nil {
		r.store(ctx, keyTypeLayout, key, data, cache.TTLLayout)
	}
	return l, false, nil
}

// Layout discards the cache hit info of LayoutWithCacheInfo.
func (r *Runner) Layout(ctx context.Context, ops []line.Operation, opts Options) (line.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, ops, opts)
	return l, err
}

// RenderWithCacheInfo renders all requested formats and reports whether
// every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l line.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutData, err := line.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.lookup(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	artifacts, err := RenderLayout(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	for format, data := range artifacts {
		r.store(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	return artifacts, false, nil
}

// Render discards the cache hit info of RenderWithCacheInfo.
func (r *Runner) Render(ctx context.Context, l line.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Cache errors degrade to misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// store writes key to the cache. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
