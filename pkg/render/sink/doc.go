// Package sink renders ranked rows into output formats.
//
// # Overview
//
// A "sink" is the rendering boundary of classviz: it receives rows already
// ordered by [rowlayout] together with the dataset they came from, and draws
// them. Sinks never sort. Each row becomes one group element keyed by the row
// ID and positioned at [rowlayout.Positions], so a document updated in place
// animates rows to their new rank instead of recreating them.
//
// This package provides:
//
//   - [RenderTimelineSVG]: attendance sessions against an event window
//   - [RenderPerformanceSVG]: correct/incorrect bars per difficulty
//   - [RenderInteractionsSVG]: daily activity per student
//   - [RenderJSON]: the computed layout for external tools
//
// PDF and PNG conversion of the SVG output lives in package render.
//
// # Options
//
//   - [WithRowHeight]: vertical distance between rows
//   - [WithWidth]: total frame width
//   - [WithBasePath]: prefix for avatar and icon URLs
//   - [WithDelay]: delay threshold for participation colors
//   - [WithSortState]: marks the active column header
//   - [WithTransition]: duration of the re-sort animation
//   - [WithMoves]: rank changes to include in JSON output
//
// [rowlayout]: github.com/matzehuels/classviz/pkg/rowlayout
// [rowlayout.Positions]: github.com/matzehuels/classviz/pkg/rowlayout#Positions
package sink
