package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/deptiers/pkg/cache"
	"github.com/matzehuels/deptiers/pkg/deps"
	"github.com/matzehuels/deptiers/pkg/errors"
	"github.com/matzehuels/deptiers/pkg/graph"
	"github.com/matzehuels/deptiers/pkg/layout"
	"github.com/matzehuels/deptiers/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default.
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

// Execute runs load → build → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	start := time.Now()
	records, err := Load(opts)
	if err != nil {
		return nil, err
	}
	result.Records = records
	result.Stats.RecordCount = len(records)
	result.Stats.LoadTime = time.Since(start)

	start = time.Now()
	res, hash, layoutHit, err := r.LayoutWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.InputHash = hash
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.NodeCount = len(res.Nodes)
	result.Stats.EdgeCount = len(res.Edges)
	result.Stats.TierCount = res.TierCount()
	result.Stats.Crossings = res.Crossings
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"tiers", result.Stats.TierCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, layoutHash, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.LayoutHash = layoutHash
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// InputHash returns the content hash of records, used in layout cache keys.
func InputHash(records []deps.Record) (string, error) {
	var buf bytes.Buffer
	if err := deps.Write(&buf, records); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// LayoutWithCacheInfo lays out records, consulting the cache first. It also
// returns the input hash and whether the layout came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, records []deps.Record, opts Options) (*layout.Result, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, "", false, err
	}

	hash, err := InputHash(records)
	if err != nil {
		return nil, "", false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if res, err := restore(data); err == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return res, hash, true, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	res, err := Layout(ctx, records, opts)
	if err != nil {
		return nil, "", false, err
	}

	if data, err := wire(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return res, hash, false, nil
}

// Layout is LayoutWithCacheInfo without the cache details.
func (r *Runner) Layout(ctx context.Context, records []deps.Record, opts Options) (*layout.Result, error) {
	res, _, _, err := r.LayoutWithCacheInfo(ctx, records, opts)
	return res, err
}

// RenderWithCacheInfo renders res, serving formats from the cache when all
// of them are present. It also returns the layout hash and whether every
// artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, string, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	data, err := wire(res)
	if err != nil {
		return nil, "", false, errors.Wrap(errors.ErrCodeInternal, err, "hash layout")
	}
	layoutHash := cache.Hash(data)
	hooks := observability.Cache()

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			return artifacts, layoutHash, true, nil
		}
		hooks.OnCacheMiss(ctx, keyTypeArtifact)
	}

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, "", false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return rendered, layoutHash, false, nil
}

// Render is RenderWithCacheInfo without the cache details.
func (r *Runner) Render(ctx context.Context, res *layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func restore(data []byte) (*layout.Result, error) {
	l, err := graph.UnmarshalLayout(data)
	if err != nil {
		return nil, err
	}
	return graph.ToResult(l)
}
