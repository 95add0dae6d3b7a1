// Package render turns ranked dashboard rows into visual output.
//
// # Overview
//
// Rendering is split in two layers:
//
//   - [scale] maps domain values (times, counts, row keys) to pixels
//   - [sink] draws the charts as SVG and exports the layout as JSON
//
// This package itself only holds format conversion. [ToPDF] and [ToPNG]
// convert any SVG using the external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderTimelineSVG(timeline, layout.Rows(), sink.WithSortState(layout.State()))
//	png, err := render.ToPNG(ctx, svg, 2.0)
//
// Rows carry their rank and a stable ID. Every sink emits one group per row
// whose element id is derived from that ID and whose vertical offset comes
// from [rowlayout.Positions], so re-rendering after a sort change moves the
// same elements instead of recreating them.
//
// [scale]: github.com/matzehuels/classviz/pkg/render/scale
// [sink]: github.com/matzehuels/classviz/pkg/render/sink
// [rowlayout.Positions]: github.com/matzehuels/classviz/pkg/rowlayout#Positions
package render
