// Package pkg provides the core libraries for classviz student-engagement
// dashboards.
//
// # Overview
//
// classviz draws one row per student (attendance timelines, quiz
// performance, daily interactions) and lets the viewer re-rank the rows by
// any column. Rows are joined to their drawings by a stable ID, so a re-sort
// moves existing rows instead of redrawing them.
//
// # Architecture
//
// The data flow:
//
//	JSON dataset
//	     ↓
//	[io] package (decode and validate)
//	     ↓
//	[engagement] package (aggregate minutes, classify participation, build rows)
//	     ↓
//	[rowlayout] package (stable locale-aware sort, ranks, offsets)
//	     ↓
//	[render/sink] package (SVG and JSON keyed by row ID)
//	     ↓
//	SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	ds, _ := io.ImportDataset("class.json")
//	l, _ := rowlayout.New(ds.Rows(), engagement.Columns(ds.Kind),
//	    rowlayout.WithInitialSort(rowlayout.SortState{Column: "stats", Direction: rowlayout.Descending}))
//
//	_ = l.ToggleSort("stats") // flips to ascending
//	svg := sink.RenderTimelineSVG(*ds.Timeline, l.Rows(), sink.WithSortState(l.State()))
//
// # Main Packages
//
// [rowlayout] - The sortable row layout: sort state, stable ranking with
// descending by comparator inversion, per-row offsets and transitions.
//
// [engagement] - Domain model and aggregation: minutes within an event,
// participation by delay threshold, duration labels, sortable rows.
//
// [io] - Dataset import and export for the three chart kinds.
//
// [render/sink] - SVG renderers for each chart kind and a JSON layout
// export. [render] converts SVG to PDF and PNG.
//
// [pipeline] - Import → layout → render with caching, used by the CLI, the
// terminal browser and the HTTP server alike.
//
// ## Infrastructure
//
// [cache] - Artifact and order cache with file, Redis and no-op backends.
//
// [config] - TOML configuration for chart, sort and cache defaults.
//
// [errors] - Error codes that separate caller mistakes from internal failures.
//
// [observability] - Hooks for pipeline, sort, cache and server events.
//
// [rowlayout]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/rowlayout
// [engagement]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/engagement
// [io]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/classviz/pkg/observability
package pkg
