package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classviz/pkg/cache"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/observability"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default.
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

// Execute runs import → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Import
	importStart := time.Now()
	data, ds, err := r.Import(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	result.Dataset = ds
	result.DatasetHash = cache.Hash(data)
	result.Stats.Rows = ds.Len()
	result.Stats.ImportTime = time.Since(importStart)

	r.Logger.Info("imported dataset",
		"kind", ds.Kind,
		"students", ds.Len(),
		"duration", result.Stats.ImportTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, err := r.Layout(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Order = l.CurrentOrder()
	result.Stats.LayoutTime = time.Since(layoutStart)
	r.storeOrder(ctx, result.DatasetHash, ds, l, opts)

	r.Logger.Info("computed layout",
		"rows", len(result.Order),
		"sort", l.State(),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, ds, result.DatasetHash, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Import reads and decodes the dataset, returning the raw bytes as well.
func (r *Runner) Import(ctx context.Context, opts Options) ([]byte, *pkgio.Dataset, error) {
	start := time.Now()
	observability.Pipeline().OnImportStart(ctx, string(opts.Kind), opts.source())

	data, err := ReadInput(opts)
	var ds *pkgio.Dataset
	if err == nil {
		ds, err = Import(data, opts)
	}

	kind, rows := string(opts.Kind), 0
	if ds != nil {
		kind, rows = string(ds.Kind), ds.Len()
	}
	observability.Pipeline().OnImportComplete(ctx, kind, rows, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return data, ds, nil
}

// Layout ranks the dataset's rows.
func (r *Runner) Layout(ctx context.Context, ds *pkgio.Dataset, opts Options) (*rowlayout.Layout, error) {
	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, string(ds.Kind), ds.Len())

	l, err := BuildLayout(ds, opts)

	state := opts.InitialSort(ds.Kind).String()
	observability.Pipeline().OnLayoutComplete(ctx, string(ds.Kind), state, time.Since(start), err)
	return l, err
}

// Rank imports and lays out a dataset without rendering. The server and
// the TUI use it to obtain a Layout they then toggle interactively.
func (r *Runner) Rank(ctx context.Context, opts Options) (*pkgio.Dataset, *rowlayout.Layout, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}
	_, ds, err := r.Import(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("import: %w", err)
	}
	l, err := r.Layout(ctx, ds, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("layout: %w", err)
	}
	return ds, l, nil
}

// Order returns the ranked row IDs, served from the cache when the same
// dataset was ranked the same way before. The bool reports a cache hit.
func (r *Runner) Order(ctx context.Context, opts Options) ([]string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}
	data, err := ReadInput(opts)
	if err != nil {
		return nil, false, err
	}
	kind, err := pkgio.DetectKind(data)
	if err != nil {
		return nil, false, err
	}

	key := r.Keyer.OrderKey(cache.Hash(data), opts.OrderKeyOpts(kind, opts.InitialSort(kind)))
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var order []string
			if json.Unmarshal(cached, &order) == nil {
				observability.Cache().OnCacheHit(ctx, "order")
				return order, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "order")
	}

	opts.Data = data
	_, l, err := r.Rank(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	order := l.CurrentOrder()
	r.setCache(ctx, "order", key, order, cache.TTLOrder)
	return order, false, nil
}

// RenderWithCacheInfo renders every requested format for the current state
// of l. Artifacts are looked up by dataset hash, sort state and render
// options; the bool is true only when all formats came from the cache.
//
// The key and the artifact both come from one Frame of l, so a concurrent
// ToggleSort cannot file one state's chart under another state's key.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, ds *pkgio.Dataset, datasetHash string, l *rowlayout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	frame := l.Frame()
	state := frame.State
	keys := make(map[string]string, len(opts.Formats))
	for _, format := range opts.Formats {
		keys[format] = r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(ds.Kind, state, format))
	}

	if !opts.Refresh && datasetHash != "" {
		artifacts := make(map[string][]byte, len(keys))
		for format, key := range keys {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(keys) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := RenderFrame(ctx, ds, frame, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if datasetHash != "" {
		for format, data := range rendered {
			if err := r.Cache.Set(ctx, keys[format], data, cache.TTLArtifact); err != nil {
				r.Logger.Warn("cache write failed", "format", format, "error", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) storeOrder(ctx context.Context, datasetHash string, ds *pkgio.Dataset, l *rowlayout.Layout, opts Options) {
	key := r.Keyer.OrderKey(datasetHash, opts.OrderKeyOpts(ds.Kind, l.State()))
	r.setCache(ctx, "order", key, l.CurrentOrder(), cache.TTLOrder)
}

func (r *Runner) setCache(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
