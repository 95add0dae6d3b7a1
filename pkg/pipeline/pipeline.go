// Package pipeline provides the import → layout → render pipeline behind
// every classviz entry point.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Import: decode a dataset (timeline, performance or interactions)
//  2. Layout: rank its rows with a [rowlayout.Layout]
//  3. Render: produce SVG, PNG, PDF or JSON
//
// The CLI, the TUI and the HTTP server all go through a [Runner] so they
// apply the same defaults, validation and cache keys.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:         "class.json",
//	    SortColumn:    "stats",
//	    SortDirection: "desc",
//	    Formats:       []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// [rowlayout.Layout]: github.com/matzehuels/classviz/pkg/rowlayout#Layout
package pipeline

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/matzehuels/classviz/pkg/cache"
	"github.com/matzehuels/classviz/pkg/config"
	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultLanguage is the collation locale for name columns.
	DefaultLanguage = "und"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. Zero values take defaults in
// [Options.ValidateAndSetDefaults].
type Options struct {
	// Import options. Data wins over Input when both are set.
	Input string          `json:"input,omitempty"`
	Data  []byte          `json:"-"`
	Kind  engagement.Kind `json:"kind,omitempty"` // expected kind; empty accepts any

	// Layout options
	SortColumn    string `json:"sort_column,omitempty"`
	SortDirection string `json:"sort_direction,omitempty"`
	Language      string `json:"language,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Delay     float64  `json:"delay,omitempty"` // zero means engagement.DefaultDelay
	RowHeight float64  `json:"row_height,omitempty"`
	Width     float64  `json:"width,omitempty"`
	BasePath  string   `json:"base_path,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Transition is the re-sort animation length; zero means sink.DefaultTransition.
	Transition time.Duration `json:"transition,omitempty"`

	// Refresh skips cache reads but still writes fresh results.
	Refresh bool `json:"refresh,omitempty"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset     *pkgio.Dataset
	DatasetHash string
	Layout      *rowlayout.Layout
	Order       []string
	Artifacts   map[string][]byte
	Stats       Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	ImportTime time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKind checks that a chart kind is known. Empty is accepted.
func ValidateKind(k engagement.Kind) error {
	if k != "" && engagement.Columns(k) == nil {
		return errors.New(errors.ErrCodeInvalidKind, "invalid kind: %q (must be one of: timeline, performance, interactions, activity, weights)", k)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and fills in defaults. It is
// idempotent. The sort column is checked later against the dataset's columns.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "input file or data is required")
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if _, err := rowlayout.ParseDirection(o.SortDirection); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDirection, err, "sort direction")
	}
	if o.SortColumn == "" && o.SortDirection != "" {
		return errors.New(errors.ErrCodeInvalidSortColumn, "sort direction %q given without a sort column", o.SortDirection)
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if _, err := language.Parse(o.Language); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "language %q", o.Language)
	}
	if o.Delay < 0 || o.RowHeight < 0 || o.Width < 0 || o.Scale < 0 || o.Transition < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "delay, row height, width, scale and transition must not be negative")
	}
	if err := errors.ValidateBasePath(o.BasePath); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Delay == 0 {
		o.Delay = engagement.DefaultDelay
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.validated = true
	return nil
}

// ApplyConfig fills fields left at their zero value from cfg. Values set by
// flags are kept.
func (o *Options) ApplyConfig(cfg config.Config) {
	if s := cfg.SortState(); o.SortColumn == "" && s.IsSet() {
		o.SortColumn = s.Column
		if o.SortDirection == "" {
			o.SortDirection = s.Direction.String()
		}
	}
	if o.Language == "" {
		o.Language = cfg.Chart.Language
	}
	if o.Delay == 0 {
		o.Delay = cfg.Chart.Delay
	}
	if o.RowHeight == 0 {
		o.RowHeight = cfg.Chart.RowHeight
	}
	if o.Width == 0 {
		o.Width = cfg.Chart.Width
	}
	if o.BasePath == "" {
		o.BasePath = cfg.Chart.BasePath
	}
	if o.Transition == 0 {
		o.Transition = cfg.Chart.Transition.Duration
	}
}

// SortState returns the configured sort state, which is unset when no sort
// column was given. Call after validation.
func (o *Options) SortState() rowlayout.SortState {
	dir, _ := rowlayout.ParseDirection(o.SortDirection)
	return rowlayout.SortState{Column: o.SortColumn, Direction: dir}
}

// InitialSort returns the sort a layout of kind starts with: the configured
// one, or the kind's default when none is configured.
func (o *Options) InitialSort(kind engagement.Kind) rowlayout.SortState {
	if s := o.SortState(); s.IsSet() {
		return s
	}
	return engagement.DefaultSort(kind)
}

// LanguageTag returns the collation locale. Call after validation.
func (o *Options) LanguageTag() language.Tag {
	tag, err := language.Parse(o.Language)
	if err != nil {
		return language.Und
	}
	return tag
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

// OrderKeyOpts returns cache key options for rows of kind ranked by state.
// The state is passed explicitly because interactive toggles move it away
// from the initial sort in o.
func (o *Options) OrderKeyOpts(kind engagement.Kind, state rowlayout.SortState) cache.OrderKeyOpts {
	k := cache.OrderKeyOpts{
		Kind:     string(kind),
		Language: strings.ToLower(o.Language),
	}
	if state.IsSet() {
		k.SortColumn = state.Column
		k.SortDirection = state.Direction.String()
	}
	return k
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(kind engagement.Kind, state rowlayout.SortState, format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		OrderKeyOpts: o.OrderKeyOpts(kind, state),
		Format:       format,
		Delay:        o.Delay,
		RowHeight:    o.RowHeight,
		Width:        o.Width,
		BasePath:     o.BasePath,
		Transition:   o.Transition.Milliseconds(),
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
