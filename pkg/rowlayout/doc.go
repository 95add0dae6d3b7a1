// Package rowlayout maintains a sortable, vertically stacked set of rows.
//
// A [Layout] owns an ordered list of [Row] values and a [SortState] (active
// column plus [Direction]). Whenever the sort state or the underlying rows
// change, the layout recomputes a total order and assigns each row a zero-based
// rank. Ranks map to vertical offsets through [Positions]; the alternating
// stripe flag comes from [Striped].
//
// The package never draws anything. A rendering layer receives the ranked rows
// and their positions and is expected to key its elements by [Row.ID], so that
// a re-sort animates existing elements instead of recreating them. The
// [Transitions] helper reports how far every row moved between two layouts.
//
// # Ordering
//
// Sorting is always stable and always starts from the order in which rows were
// supplied, so rows with equal keys keep their input order in both directions.
// Descending order inverts the comparator rather than reversing the sorted
// list; reversing would also reverse the order of tied rows.
//
// String keys are compared with locale-aware collation (golang.org/x/text),
// numeric keys numerically.
//
// # Usage
//
//	rows := []rowlayout.Row{
//	    {ID: "a", Keys: map[string]rowlayout.Key{"name": rowlayout.StringKey("Zack")}},
//	    {ID: "b", Keys: map[string]rowlayout.Key{"name": rowlayout.StringKey("Amy")}},
//	}
//	l, err := rowlayout.New(rows, []string{"name"},
//	    rowlayout.WithInitialSort(rowlayout.SortState{Column: "name"}))
//	if err != nil {
//	    return err
//	}
//	l.CurrentOrder()        // [b a]
//	_ = l.ToggleSort("name") // descending
//	l.CurrentOrder()        // [a b]
package rowlayout
