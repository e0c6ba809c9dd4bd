// Package pkg provides the core libraries for facetkit record visualization.
//
// # Overview
//
// Facetkit turns experiment records (metrics, images, audios, texts,
// figures, distributions) into visualization panels, splits panels into
// facets by grouping specs and publishes them to a 2D layout grid that a
// browser host renders. The pkg directory is organized into four areas:
//
//  1. Records - [record] values, [query] collections and [group] grouping
//  2. Panels - [viz] builders, [facet] composition and the [tree] node model
//  3. Publishing - [layout] grid merge, stores and host interaction
//  4. Orchestration - [pipeline] view runs, [hostapi] and [project]
//
// # Architecture
//
// The typical data flow through facetkit:
//
//	Record store (file, HTTP host, MongoDB)
//	         ↓
//	    [query] package (search a collection, tag record types)
//	         ↓
//	    [viz] package (build a panel node)
//	         ↓
//	    [facet] package (group rows, columns, stacks and dimensions)
//	         ↓
//	    [layout] package (merge into the grid, publish to the store)
//
// # Quick Start
//
// Query metrics, build a line chart and facet it by subset:
//
//	import (
//	    "github.com/matzehuels/facetkit/pkg/facet"
//	    "github.com/matzehuels/facetkit/pkg/group"
//	    "github.com/matzehuels/facetkit/pkg/layout"
//	    "github.com/matzehuels/facetkit/pkg/query"
//	    "github.com/matzehuels/facetkit/pkg/viz"
//	)
//
//	pub := layout.NewPublisher(layout.NewMemoryStore(), nil)
//	cat := query.NewCatalog(query.NewFileSearcher("export"), nil)
//
//	// 1. Query records
//	metrics, _ := cat.Metric.Query(ctx, "name=loss")
//
//	// 2. Build a panel
//	b := viz.NewBuilder(pub, nil)
//	chart, _ := b.LineChart(ctx, metrics, viz.LineChartOptions{
//	    X: "steps", Y: "values", Color: group.Fields("run.hash"),
//	})
//
//	// 3. Split it into facets
//	faceted, _ := facet.Group(ctx, pub, chart, facet.Options{
//	    Row: group.Fields("context.subset"),
//	})
//
// # Main Packages
//
// [record] - Records as nested maps, dotted path lookup and the canonical
// string form used for grouping and filtering.
//
// [group] - Grouping specs (field paths or derived values), md5 group keys
// and the ordering of group values.
//
// [query] - Collection objects over a [query.Searcher]: in-memory, file,
// HTTP and MongoDB backends, plus a cached wrapper.
//
// [tree] - Panel nodes, union nodes and the layout grid.
//
// [viz] - Builders for line charts, media lists, texts, figures, JSON, HTML
// and tables, with the color and stroke style palettes.
//
// [facet] - Facet composition: rows, columns, stacks and named dimensions.
//
// [layout] - The grid merge rule, the layout publisher and its memory,
// file and Redis stores.
//
// [pipeline] - Declarative views read from TOML and the runner that
// executes them.
//
// [hostapi] - HTTP API serving the grid, host state and search to the
// browser renderer.
//
// [project] - Project location and the repository pools.
//
// [cache] - Null, memory, file and Redis caches with query keyers.
//
// [config], [errors], [observability], [buildinfo], [httputil] - Shared
// settings, coded errors, hooks, version data and retry helpers.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/facet/...      # Specific package
//
// [record]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/record
// [group]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/group
// [query]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/query
// [query.Searcher]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/query#Searcher
// [tree]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/tree
// [viz]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/viz
// [facet]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/facet
// [layout]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/pipeline
// [hostapi]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/hostapi
// [project]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/project
// [cache]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/buildinfo
// [httputil]: https://pkg.go.dev/github.com/matzehuels/facetkit/pkg/httputil
package pkg
