package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stowage/pkg/cache"
	"github.com/matzehuels/stowage/pkg/observability"
	"github.com/matzehuels/stowage/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the watch loop share this caching logic.
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

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	s, buildHit, err := r.BuildWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = s
	result.Report = scene.Analyze(s)
	result.SceneHash = SceneHash(s)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.ItemCount = len(s.Items)
	result.Stats.ColumnCount = result.Report.Columns
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built scene",
		"items", result.Stats.ItemCount,
		"columns", result.Stats.ColumnCount,
		"cached", buildHit,
		"duration", result.Stats.BuildTime)
	for _, w := range result.Report.Warnings {
		r.Logger.Warn(w)
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithCacheInfo(ctx, s, result.SceneHash, result.Report, opts)
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

// BuildWithCacheInfo builds the scene with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (scene.Scene, bool, error) {
	r.applyLogger(&opts)
	opts.SetBuildDefaults()

	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnBuildStart(ctx, opts.Params.NumItems)
	start := time.Now()

	// The camera depends on the frame, not the params, so it is not part of
	// the cached scene key and is always recomputed.
	camera := scene.NewCamera(opts.Aspect())
	cacheKey := r.Keyer.SceneKey(opts.Params)

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			doc, err := scene.Unmarshal(data)
			if err == nil {
				s := doc.Scene
				s.Camera = camera
				cacheHooks.OnCacheHit(ctx, cache.KindScene)
				hooks.OnBuildComplete(ctx, len(s.Items), len(s.Columns()), time.Since(start), nil)
				return s, true, nil
			}
			// If deserialization fails, fall through to rebuild
		} else if err != nil {
			opts.Logger.Debug("scene cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, cache.KindScene)
	}

	s := scene.Build(opts.Params)
	s.Camera = camera

	if data, err := scene.Marshal(scene.NewDocument(s, nil)); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err != nil {
			opts.Logger.Debug("scene cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, cache.KindScene, len(data))
		}
	}

	hooks.OnBuildComplete(ctx, len(s.Items), len(s.Columns()), time.Since(start), nil)
	return s, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (scene.Scene, error) {
	s, _, err := r.BuildWithCacheInfo(ctx, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s scene.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	return r.renderWithCacheInfo(ctx, s, SceneHash(s), scene.Analyze(s), opts)
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, s scene.Scene, sceneHash string, report scene.Report, opts Options) (map[string][]byte, bool, error) {
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if opts.Refresh {
			missing = append(missing, format)
			continue
		}
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, cache.KindArtifact)
			artifacts[format] = data
			continue
		}
		cacheHooks.OnCacheMiss(ctx, cache.KindArtifact)
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := RenderScene(ctx, s, report, renderOpts)
	if err != nil {
		hooks.OnRenderComplete(ctx, missing, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("artifact cache write failed", "format", format, "error", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, cache.KindArtifact, len(data))
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil
}

// SceneHash returns the content hash of the serialized scene.
func SceneHash(s scene.Scene) string {
	data, err := scene.Marshal(scene.NewDocument(s, nil))
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
