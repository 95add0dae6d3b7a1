package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/classviz/pkg/engagement"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/render"
	"github.com/matzehuels/classviz/pkg/render/sink"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// RenderSVG draws the chart of ds for rows already ranked under state.
func RenderSVG(ds *pkgio.Dataset, rows []rowlayout.Row, state rowlayout.SortState, opts Options) []byte {
	sopts := opts.sinkOptions(ds.Kind, state)
	switch ds.Kind {
	case engagement.KindPerformance:
		return sink.RenderPerformanceSVG(*ds.Performance, rows, sopts...)
	case engagement.KindInteractions:
		return sink.RenderInteractionsSVG(*ds.Interactions, rows, sopts...)
	case engagement.KindActivity:
		return sink.RenderActivitySVG(*ds.Activity, rows, sopts...)
	case engagement.KindWeights:
		return sink.RenderWeightsSVG(*ds.Weights, rows, sopts...)
	default:
		return sink.RenderTimelineSVG(*ds.Timeline, rows, sopts...)
	}
}

// Render produces every format in opts.Formats from the current state of l.
func Render(ctx context.Context, ds *pkgio.Dataset, l *rowlayout.Layout, opts Options) (map[string][]byte, error) {
	return RenderFrame(ctx, ds, l.Frame(), opts)
}

// RenderFrame produces every format in opts.Formats from f. The SVG is drawn
// once and converted for PNG and PDF.
func RenderFrame(ctx context.Context, ds *pkgio.Dataset, f rowlayout.Frame, opts Options) (map[string][]byte, error) {
	rows, state := f.Rows, f.State
	out := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	if opts.HasFormat(FormatSVG) || opts.HasFormat(FormatPNG) || opts.HasFormat(FormatPDF) {
		svg = RenderSVG(ds, rows, state, opts)
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			out[format] = svg
		case FormatPNG:
			png, err := render.ToPNG(ctx, svg, opts.Scale)
			if err != nil {
				return nil, fmt.Errorf("png: %w", err)
			}
			out[format] = png
		case FormatPDF:
			pdf, err := render.ToPDF(ctx, svg)
			if err != nil {
				return nil, fmt.Errorf("pdf: %w", err)
			}
			out[format] = pdf
		case FormatJSON:
			data, err := sink.RenderJSON(rows,
				sink.WithRowHeight(opts.rowHeight(ds.Kind)),
				sink.WithSortState(state),
				sink.WithMoves(f.Moves),
			)
			if err != nil {
				return nil, fmt.Errorf("json: %w", err)
			}
			out[format] = data
		}
	}
	return out, nil
}

func (o *Options) rowHeight(kind engagement.Kind) float64 {
	if o.RowHeight > 0 {
		return o.RowHeight
	}
	return sink.DefaultRowHeight(kind)
}

func (o *Options) sinkOptions(kind engagement.Kind, state rowlayout.SortState) []sink.Option {
	opts := []sink.Option{
		sink.WithRowHeight(o.rowHeight(kind)),
		sink.WithWidth(o.Width),
		sink.WithBasePath(o.BasePath),
		sink.WithDelay(o.Delay),
		sink.WithSortState(state),
	}
	if o.Transition > 0 {
		opts = append(opts, sink.WithTransition(o.Transition))
	}
	return opts
}
