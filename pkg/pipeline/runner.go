package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facetkit/pkg/cache"
	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/facet"
	"github.com/matzehuels/facetkit/pkg/layout"
	"github.com/matzehuels/facetkit/pkg/query"
	"github.com/matzehuels/facetkit/pkg/record"
	"github.com/matzehuels/facetkit/pkg/tree"
	"github.com/matzehuels/facetkit/pkg/viz"
)

// snapshotPrefix namespaces view snapshots in the snapshot cache.
const snapshotPrefix = "view:"

// Runner executes views against a catalog and publishes the results.
//
// Each run stores a JSON snapshot of the final node in Snapshots, keyed by
// view name, so hosts can serve the last result without re-running.
type Runner struct {
	Catalog   *query.Catalog
	Publisher *layout.Publisher
	Builder   *viz.Builder
	Snapshots cache.Cache
	Logger    *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
// Snapshots are disabled until Snapshots is set.
func NewRunner(cat *query.Catalog, pub *layout.Publisher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog:   cat,
		Publisher: pub,
		Builder:   viz.NewBuilder(pub, logger),
		Snapshots: cache.NewNullCache(),
		Logger:    logger,
	}
}

// Run executes one view: query, build, facet when the view sets any
// dimension, publish.
func (r *Runner) Run(ctx context.Context, v View) (*Result, error) {
	if err := v.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{View: v.Name}

	// Stage 1: Query
	queryStart := time.Now()
	obj, err := r.Catalog.Object(v.Type)
	if err != nil {
		return nil, err
	}
	data, err := obj.Query(ctx, v.Query)
	if err != nil {
		return nil, fmt.Errorf("view %q: %w", v.Name, err)
	}
	if v.Runs {
		data = record.Runs(data)
	}
	result.Stats.Records = len(data)
	result.Stats.QueryTime = time.Since(queryStart)

	r.Logger.Info("queried records",
		"view", v.Name,
		"type", v.Type,
		"records", len(data),
		"duration", result.Stats.QueryTime)

	// Stage 2: Build
	buildStart := time.Now()
	node, err := r.build(ctx, &v, data)
	if err != nil {
		return nil, fmt.Errorf("view %q: build %s: %w", v.Name, v.Builder, err)
	}
	result.Stats.BuildTime = time.Since(buildStart)

	r.Logger.Debug("built node",
		"view", v.Name,
		"builder", v.Builder,
		"duration", result.Stats.BuildTime)

	// Stage 3: Facet
	if v.Faceted() {
		facetStart := time.Now()
		node, err = facet.Group(ctx, r.Publisher, node, v.FacetOptions())
		if err != nil {
			return nil, fmt.Errorf("view %q: facet: %w", v.Name, err)
		}
		result.Stats.FacetTime = time.Since(facetStart)
		result.Stats.Faceted = true

		r.Logger.Debug("grouped node",
			"view", v.Name,
			"no_facet", node.NoFacet,
			"duration", result.Stats.FacetTime)
	}
	result.Node = node

	r.saveSnapshot(ctx, v.Name, node)
	return result, nil
}

// RunAll runs views in order and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context, views []View) ([]*Result, error) {
	results := make([]*Result, 0, len(views))
	for _, v := range views {
		res, err := r.Run(ctx, v)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Snapshot returns the node stored by the last run of the named view.
// Callbacks are not part of a snapshot.
func (r *Runner) Snapshot(ctx context.Context, name string) (*tree.Node, error) {
	data, err := cache.GetOrMiss(ctx, r.Snapshots, snapshotPrefix+name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "no snapshot for view %q", name)
	}
	var n tree.Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode snapshot for view %q", name)
	}
	return &n, nil
}

func (r *Runner) saveSnapshot(ctx context.Context, name string, n *tree.Node) {
	data, err := json.Marshal(n)
	if err != nil {
		r.Logger.Warn("snapshot not saved", "view", name, "error", err)
		return
	}
	if err := r.Snapshots.Set(ctx, snapshotPrefix+name, data, 0); err != nil {
		r.Logger.Warn("snapshot not saved", "view", name, "error", err)
	}
}

func (r *Runner) build(ctx context.Context, v *View, data []record.Record) (*tree.Node, error) {
	b := r.Builder
	switch v.Builder {
	case viz.TypeLineChart:
		return b.LineChart(ctx, data, v.LineChartOptions())
	case viz.TypeImages:
		return b.ImagesList(ctx, data)
	case viz.TypeAudios:
		return b.AudiosList(ctx, data)
	case viz.TypeText:
		return b.TextsList(ctx, data, spec(v.Color))
	case viz.TypePlotly:
		figs := make([]viz.Figure, 0, len(data))
		for i, rec := range data {
			raw, err := json.Marshal(rec[viz.FieldData])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "figure record %d", i)
			}
			figs = append(figs, viz.RawFigure(raw))
		}
		return b.FiguresList(ctx, figs...)
	case viz.TypeJSON:
		return b.JSON(ctx, data)
	case viz.TypeDataFrame:
		f, err := r.Catalog.Metric.DataFrame(v.Metric)
		if err != nil {
			return nil, err
		}
		return b.Table(ctx, f)
	case viz.TypeHTML:
		return b.HTML(ctx, v.HTML)
	}
	return nil, errors.New(errors.ErrCodeInvalidView, "unknown builder %q", v.Builder)
}

// Close releases the snapshot cache.
func (r *Runner) Close() error {
	if r.Snapshots != nil {
		return r.Snapshots.Close()
	}
	return nil
}
