package engagement

import (
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// Sortable column names.
const (
	ColumnName     = "name"     // student name, collated
	ColumnStats    = "stats"    // minutes attended within the event
	ColumnAnswered = "answered" // questions answered
	ColumnTotal    = "total"    // minutes of activity in the date range
	ColumnProgress = "progress" // resources interacted with
	ColumnCorrect  = "correct"  // resources answered correctly
	ColumnTitle    = "title"    // graded component title, collated
	ColumnWeight   = "weight"   // weight in the final grade
)

// Kind identifies a dataset and chart type.
type Kind string

const (
	KindTimeline     Kind = "timeline"
	KindPerformance  Kind = "performance"
	KindInteractions Kind = "interactions"
	KindActivity     Kind = "activity"
	KindWeights      Kind = "weights"
)

// Kinds lists every chart kind.
var Kinds = []Kind{KindTimeline, KindPerformance, KindInteractions, KindActivity, KindWeights}

// Columns returns the sortable columns of a chart kind.
func Columns(k Kind) []string {
	switch k {
	case KindTimeline:
		return []string{ColumnName, ColumnStats}
	case KindPerformance:
		return []string{ColumnName, ColumnAnswered}
	case KindInteractions:
		return []string{ColumnName, ColumnTotal}
	case KindActivity:
		return []string{ColumnName, ColumnProgress, ColumnCorrect}
	case KindWeights:
		return []string{ColumnTitle, ColumnWeight}
	}
	return nil
}

// DefaultSort is the sort applied when none is configured. Weights are
// shown heaviest first; every other kind keeps input order.
func DefaultSort(k Kind) rowlayout.SortState {
	if k == KindWeights {
		return rowlayout.SortState{Column: ColumnWeight, Direction: rowlayout.Descending}
	}
	return rowlayout.SortState{}
}

// TimelineRows builds one row per student, keyed by name and by total minutes
// within the event.
func TimelineRows(t Timeline) []rowlayout.Row {
	rows := make([]rowlayout.Row, len(t.Students))
	for i, st := range t.Students {
		rows[i] = rowlayout.Row{
			ID:    StudentID(st.ID, st.Name),
			Label: st.Name,
			Keys: map[string]rowlayout.Key{
				ColumnName:  rowlayout.StringKey(st.Name),
				ColumnStats: rowlayout.NumberKey(TotalMinutes(st, t.Event)),
			},
		}
	}
	return rows
}

// PerformanceRows builds one row per student, keyed by name and by the number
// of answered questions.
func PerformanceRows(p Performance) []rowlayout.Row {
	rows := make([]rowlayout.Row, len(p.Students))
	for i, st := range p.Students {
		rows[i] = rowlayout.Row{
			ID:    StudentID(st.ID, st.Name),
			Label: st.Name,
			Keys: map[string]rowlayout.Key{
				ColumnName:     rowlayout.StringKey(st.Name),
				ColumnAnswered: rowlayout.NumberKey(float64(st.Answered())),
			},
		}
	}
	return rows
}

// InteractionRows builds one row per student, keyed by name and by the grand
// total of minutes over the date range.
func InteractionRows(d Interactions) []rowlayout.Row {
	rows := make([]rowlayout.Row, len(d.Students))
	for i, st := range d.Students {
		rows[i] = rowlayout.Row{
			ID:    StudentID(st.ID, st.Name),
			Label: st.Name,
			Keys: map[string]rowlayout.Key{
				ColumnName:  rowlayout.StringKey(st.Name),
				ColumnTotal: rowlayout.NumberKey(d.GrandTotal(st)),
			},
		}
	}
	return rows
}

// ActivityRows builds one row per student, keyed by name, by the number of
// resources interacted with and by the number answered correctly.
func ActivityRows(a Activity) []rowlayout.Row {
	cols, _ := a.Columns()
	rows := make([]rowlayout.Row, len(a.Students))
	for i, st := range a.Students {
		rows[i] = rowlayout.Row{
			ID:    StudentID(st.ID, st.Name),
			Label: st.Name,
			Keys: map[string]rowlayout.Key{
				ColumnName:     rowlayout.StringKey(st.Name),
				ColumnProgress: rowlayout.NumberKey(float64(st.Progress(cols))),
				ColumnCorrect:  rowlayout.NumberKey(float64(st.Count(cols, StateCorrect))),
			},
		}
	}
	return rows
}

// WeightRows builds one row per visible item, keyed by title and weight.
func WeightRows(w Weights) []rowlayout.Row {
	items := w.Visible()
	rows := make([]rowlayout.Row, len(items))
	for i, it := range items {
		rows[i] = rowlayout.Row{
			ID:    StudentID(it.Key, it.Title),
			Label: it.Title,
			Keys: map[string]rowlayout.Key{
				ColumnTitle:  rowlayout.StringKey(it.Title),
				ColumnWeight: rowlayout.NumberKey(it.Weight),
			},
		}
	}
	return rows
}
