package rowlayout

import (
	"fmt"
	"slices"
	"sync"

	"golang.org/x/text/language"
)

// Option configures a Layout.
type Option func(*config)

type config struct {
	initial SortState
	tag     language.Tag
}

// WithInitialSort sets the sort state applied by New.
func WithInitialSort(s SortState) Option { return func(c *config) { c.initial = s } }

// WithLanguage sets the collation language for string keys. Defaults to
// language.Und (root collation).
func WithLanguage(tag language.Tag) Option { return func(c *config) { c.tag = tag } }

// Layout owns a row set and its sort state. The rows and state are mutated
// together under one lock, so a Layout may be shared between goroutines.
type Layout struct {
	mu      sync.Mutex
	columns []string
	compare CompareFunc

	input []Row // rows as supplied; sorting always starts here
	rows  []Row // ranked
	state SortState
	moves []Move
}

// New validates rows against the sortable columns and returns a ranked
// Layout.
//
// New fails with ErrInvalidSortColumn if the initial sort column is not one of
// columns or if a row lacks a key for any column, and with ErrDuplicateRowID
// if two rows share an ID. An empty row set is valid and yields an empty
// layout.
func New(rows []Row, columns []string, opts ...Option) (*Layout, error) {
	cfg := config{tag: language.Und}
	for _, opt := range opts {
		opt(&cfg)
	}
	l := &Layout{
		columns: slices.Clone(columns),
		compare: NewCompare(cfg.tag),
	}
	if cfg.initial.IsSet() && !l.hasColumn(cfg.initial.Column) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortColumn, cfg.initial.Column)
	}
	if err := l.validate(rows); err != nil {
		return nil, err
	}

	l.state = cfg.initial
	l.input = cloneRows(rows)
	l.rows = SortAndRank(l.input, l.state, l.compare)
	return l, nil
}

// ToggleSort flips the direction when column is already active, otherwise it
// makes column active in ascending order. The rows are then re-ranked.
//
// An unknown column is a caller bug: ToggleSort returns ErrInvalidSortColumn
// and leaves the layout untouched.
func (l *Layout) ToggleSort(column string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasColumn(column) {
		return fmt.Errorf("%w: %q", ErrInvalidSortColumn, column)
	}

	if l.state.Column == column {
		l.state.Direction = l.state.Direction.Reverse()
	} else {
		l.state = SortState{Column: column, Direction: Ascending}
	}
	l.rerank()
	return nil
}

// SetRows replaces the dataset while keeping the current sort state.
func (l *Layout) SetRows(rows []Row) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.validate(rows); err != nil {
		return err
	}
	l.input = cloneRows(rows)
	l.rerank()
	return nil
}

// Rows returns a copy of the ranked rows.
func (l *Layout) Rows() []Row {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneRows(l.rows)
}

// CurrentOrder returns the row IDs in rank order.
func (l *Layout) CurrentOrder() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return IDs(l.rows)
}

// State returns the active sort state.
func (l *Layout) State() SortState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Columns returns the sortable column names.
func (l *Layout) Columns() []string {
	return slices.Clone(l.columns)
}

// Positions returns the vertical offset of every row for rowHeight.
func (l *Layout) Positions(rowHeight float64) map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Positions(l.rows, rowHeight)
}

// LastMoves returns the rank changes caused by the most recent ToggleSort or
// SetRows. It is empty right after New.
func (l *Layout) LastMoves() []Move {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.moves)
}

// Snapshot returns the ranked rows and the sort state that produced them,
// read atomically.
func (l *Layout) Snapshot() ([]Row, SortState) {
	f := l.Frame()
	return f.Rows, f.State
}

// Frame is a consistent copy of a Layout: the ranked rows, the state that
// ranked them and the moves that led there.
type Frame struct {
	Rows  []Row
	State SortState
	Moves []Move
}

// Frame reads the rows, state and last moves under one lock. Anything
// derived from more than one of them (a cache key and the chart it names)
// must come from the same Frame.
func (l *Layout) Frame() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Frame{Rows: cloneRows(l.rows), State: l.state, Moves: slices.Clone(l.moves)}
}

func (l *Layout) rerank() {
	next := SortAndRank(l.input, l.state, l.compare)
	l.moves = Transitions(l.rows, next)
	l.rows = next
}

func (l *Layout) hasColumn(column string) bool {
	return slices.Contains(l.columns, column)
}

func (l *Layout) validate(rows []Row) error {
	ids := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if _, dup := ids[r.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateRowID, r.ID)
		}
		ids[r.ID] = struct{}{}
		for _, col := range l.columns {
			if _, ok := r.Keys[col]; !ok {
				return fmt.Errorf("%w: row %q has no key for %q", ErrInvalidSortColumn, r.ID, col)
			}
		}
	}
	return nil
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}
	return out
}
