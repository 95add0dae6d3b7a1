package sink

import (
	"time"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

const (
	// DefaultTransition matches the re-sort animation of the dashboards.
	DefaultTransition = 750 * time.Millisecond

	// DefaultWidth is the default total frame width in pixels.
	DefaultWidth = 900.0
)

// DefaultRowHeight returns the row height used for a chart kind when none is
// configured.
func DefaultRowHeight(k engagement.Kind) float64 {
	switch k {
	case engagement.KindPerformance:
		return 90
	case engagement.KindInteractions:
		return 80
	case engagement.KindActivity, engagement.KindWeights:
		return 60
	default:
		return 46
	}
}

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	rowHeight  float64
	width      float64
	basePath   string
	delay      float64
	state      rowlayout.SortState
	transition time.Duration
	moves      []rowlayout.Move
}

func WithRowHeight(h float64) Option { return func(r *renderer) { r.rowHeight = h } }
func WithWidth(w float64) Option     { return func(r *renderer) { r.width = w } }
func WithBasePath(p string) Option   { return func(r *renderer) { r.basePath = p } }
func WithDelay(minutes float64) Option {
	return func(r *renderer) { r.delay = minutes }
}
func WithSortState(s rowlayout.SortState) Option { return func(r *renderer) { r.state = s } }
func WithTransition(d time.Duration) Option      { return func(r *renderer) { r.transition = d } }

// WithMoves includes rank changes in JSON output. SVG output ignores them.
func WithMoves(m []rowlayout.Move) Option { return func(r *renderer) { r.moves = m } }

func newRenderer(kind engagement.Kind, opts ...Option) renderer {
	r := renderer{
		rowHeight:  DefaultRowHeight(kind),
		width:      DefaultWidth,
		delay:      engagement.DefaultDelay,
		transition: DefaultTransition,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.rowHeight <= 0 {
		r.rowHeight = DefaultRowHeight(kind)
	}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	return r
}
