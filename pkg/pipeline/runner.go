package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/techflow/pkg/cache"
	"github.com/matzehuels/techflow/pkg/diagram"
	"github.com/matzehuels/techflow/pkg/errors"
	"github.com/matzehuels/techflow/pkg/flow"
	"github.com/matzehuels/techflow/pkg/io"
	"github.com/matzehuels/techflow/pkg/observability"
	"github.com/matzehuels/techflow/pkg/source"
	"github.com/matzehuels/techflow/pkg/table"
	"github.com/matzehuels/techflow/pkg/tech"
)

// ErrNotLoaded is returned when a Runner is used before a sheet is loaded.
var ErrNotLoaded = errors.New(errors.ErrCodeInvalidSource, "no technology sheet loaded")

// Runner encapsulates pipeline execution with caching.
//
// After Load the sheet is read-only, so one Runner can serve concurrent
// dashboard requests. A later Load swaps the sheet atomically.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu     sync.RWMutex
	table  *table.Table
	form   tech.Form
	source string
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

// Load reads the sheet from src and prepares it for form.
func (r *Runner) Load(ctx context.Context, src source.Source, form tech.Form) error {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.String())
	start := time.Now()

	t, err := src.Load(ctx)
	if err == nil {
		err = r.SetTable(t, form, src.String())
	}
	rows := 0
	if t != nil {
		rows = t.Len()
	}
	hooks.OnLoadComplete(ctx, src.String(), rows, time.Since(start), err)
	if err != nil {
		return err
	}

	r.Logger.Info("loaded sheet",
		"source", src.String(),
		"form", form,
		"rows", rows,
		"duration", time.Since(start).Round(time.Millisecond))
	return nil
}

// SetTable installs an already-loaded table, applying the form's
// preprocessing. name identifies the table in logs.
func (r *Runner) SetTable(t *table.Table, form tech.Form, name string) error {
	if err := form.Prepare(t); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table, r.form, r.source = t, form, name
	return nil
}

// Form returns the form of the loaded sheet.
func (r *Runner) Form() tech.Form {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.form
}

// Source names the loaded sheet.
func (r *Runner) Source() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.source
}

func (r *Runner) loaded() (*table.Table, tech.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.table == nil {
		return nil, "", ErrNotLoaded
	}
	return r.table, r.form, nil
}

// IDs returns the distinct technology identifiers whose rows match keyword,
// in first-seen order. The aggregated form searches every column, the
// single-row form only the ID column. An empty keyword matches everything.
func (r *Runner) IDs(keyword string) ([]string, error) {
	t, form, err := r.loaded()
	if err != nil {
		return nil, err
	}
	return t.Filter(keyword, form.FilterColumns()...).Distinct(form.IDColumn()), nil
}

// Technology returns the parsed single-row record of id, for detail views.
// The aggregated form has no such record and returns ok false.
func (r *Runner) Technology(id string) (tech.Technology, bool) {
	t, form, err := r.loaded()
	if err != nil || form != tech.FormSingle {
		return tech.Technology{}, false
	}
	rec, ok := t.First(form.IDColumn(), id)
	if !ok {
		return tech.Technology{}, false
	}
	parsed, _, err := tech.Parse(rec)
	return parsed, err == nil
}

// Build constructs the diagram of technology id. Diagnostics are attached
// to the graph and logged as warnings.
func (r *Runner) Build(ctx context.Context, id string, opts diagram.Options) (*flow.Graph, error) {
	if err := errors.ValidateIdentifier(id); err != nil {
		return nil, err
	}
	t, form, err := r.loaded()
	if err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, id)
	start := time.Now()

	g, err := diagram.Build(t, form, id, opts)
	if err != nil {
		hooks.OnBuildComplete(ctx, id, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnBuildComplete(ctx, id, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	for _, d := range g.Diagnostics() {
		r.Logger.Warn(d.Message, "id", d.Subject, "kind", d.Kind)
	}
	r.Logger.Debug("built diagram",
		"id", id,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount())
	return g, nil
}

// Execute builds and renders one technology.
func (r *Runner) Execute(ctx context.Context, id string, opts Options) (*Result, error) {
	buildStart := time.Now()
	g, err := r.Build(ctx, id, opts.Diagram)
	if err != nil {
		return nil, err
	}
	buildTime := time.Since(buildStart)

	result, err := r.ExecuteGraph(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.ID = id
	result.Stats.BuildTime = buildTime
	return result, nil
}

// ExecuteGraph renders a graph built elsewhere, such as one imported from
// a JSON document. It needs no loaded sheet. The result's ID is the graph
// name.
func (r *Runner) ExecuteGraph(ctx context.Context, g *flow.Graph, opts Options) (*Result, error) {
	result := &Result{
		ID:    g.Name(),
		Graph: g,
		Stats: Stats{NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount()},
	}

	renderStart := time.Now()
	artifacts, hash, hit, err := r.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", result.ID, err)
	}
	result.Artifacts = artifacts
	result.GraphHash = hash
	result.RenderHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered diagram",
		"id", result.ID,
		"formats", opts.formats(),
		"cached", hit,
		"duration", result.Stats.RenderTime.Round(time.Millisecond))
	return result, nil
}

// Batch executes every id in order. A failure is recorded on its item and
// the batch continues with the next id. The callback, if set, is invoked
// after each item. Cancellation stops the batch and returns the items done.
func (r *Runner) Batch(ctx context.Context, ids []string, opts Options, each func(BatchItem)) []BatchItem {
	items := make([]BatchItem, 0, len(ids))
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		res, err := r.Execute(ctx, id, opts)
		item := BatchItem{ID: id, Result: res, Err: err}
		if err != nil {
			r.Logger.Error("render failed", "id", id, "err", err)
		}
		items = append(items, item)
		if each != nil {
			each(item)
		}
	}
	return items
}

// GraphHash returns the content hash of g's JSON description.
func GraphHash(g *flow.Graph) (string, error) {
	var buf bytes.Buffer
	if err := io.WriteJSON(g, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
