package rowlayout

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Row is one line of a vertically stacked chart.
type Row struct {
	// ID is the join key the rendering layer uses to match elements across
	// re-sorts. It must be unique within a layout and stable across datasets.
	ID string

	// Label is a display name. It takes no part in ordering unless a column
	// key is derived from it.
	Label string

	// Keys maps each sortable column to this row's value for it.
	Keys map[string]Key

	// Rank is the zero-based position after sorting.
	Rank int
}

// clone returns a copy of r that shares no map with the original.
func (r Row) clone() Row {
	r.Keys = maps.Clone(r.Keys)
	return r
}

// Direction is the sort direction of a column.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection parses "asc", "ascending", "desc" or "descending"
// (case-insensitive). The empty string yields Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction: %q (must be 'asc' or 'desc')", s)
}

// SortState is the active sort column and direction. An empty Column means
// rows keep their input order.
type SortState struct {
	Column    string
	Direction Direction
}

// IsSet reports whether a sort column is active.
func (s SortState) IsSet() bool { return s.Column != "" }

func (s SortState) String() string {
	if !s.IsSet() {
		return "none"
	}
	return s.Column + " " + s.Direction.String()
}

// SortAndRank returns a copy of rows ordered by state and with Rank assigned.
//
// The sort is stable with respect to the order of rows. When state has no
// column the input order is kept. Descending order inverts compare, which
// keeps tied rows in input order.
//
// Rows missing the active key compare as the zero string key. Use [Layout] to
// have keys validated up front.
func SortAndRank(rows []Row, state SortState, compare CompareFunc) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone()
	}

	if state.IsSet() {
		col := state.Column
		desc := state.Direction == Descending
		slices.SortStableFunc(out, func(a, b Row) int {
			c := compare(a.Keys[col], b.Keys[col])
			if desc {
				return -c
			}
			return c
		})
	}

	for i := range out {
		out[i].Rank = i
	}
	return out
}

// Positions maps every row ID to its vertical offset, rank*rowHeight.
func Positions(rows []Row, rowHeight float64) map[string]float64 {
	pos := make(map[string]float64, len(rows))
	for _, r := range rows {
		pos[r.ID] = float64(r.Rank) * rowHeight
	}
	return pos
}

// Striped reports whether a row at rank gets the alternate stripe background.
func Striped(rank int) bool {
	return rank%2 == 1
}

// Move records a row's rank before and after a re-sort.
type Move struct {
	ID   string
	From int
	To   int
}

// Moved reports whether the row changed position.
func (m Move) Moved() bool { return m.From != m.To }

// Transitions pairs rows of two rankings by ID, in the order of after.
// Rows that only exist in after get From = -1; rows only in before are
// reported last with To = -1.
func Transitions(before, after []Row) []Move {
	prev := make(map[string]int, len(before))
	for _, r := range before {
		prev[r.ID] = r.Rank
	}

	moves := make([]Move, 0, len(after))
	seen := make(map[string]bool, len(after))
	for _, r := range after {
		from, ok := prev[r.ID]
		if !ok {
			from = -1
		}
		moves = append(moves, Move{ID: r.ID, From: from, To: r.Rank})
		seen[r.ID] = true
	}
	for _, r := range before {
		if !seen[r.ID] {
			moves = append(moves, Move{ID: r.ID, From: r.Rank, To: -1})
		}
	}
	return moves
}

// IDs returns the row IDs in slice order.
func IDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}
