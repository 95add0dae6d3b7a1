package rowlayout_test

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/matzehuels/classviz/pkg/rowlayout"
)

func Example() {
	rows := []rowlayout.Row{
		{ID: "a", Keys: map[string]rowlayout.Key{"name": rowlayout.StringKey("Zack")}},
		{ID: "b", Keys: map[string]rowlayout.Key{"name": rowlayout.StringKey("Amy")}},
	}
	l, err := rowlayout.New(rows, []string{"name"},
		rowlayout.WithInitialSort(rowlayout.SortState{Column: "name"}))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(l.CurrentOrder())

	_ = l.ToggleSort("name")
	fmt.Println(l.State(), l.CurrentOrder())
	// Output:
	// [b a]
	// name desc [a b]
}

func ExamplePositions() {
	rows := rowlayout.SortAndRank([]rowlayout.Row{
		{ID: "x", Keys: map[string]rowlayout.Key{"metric": rowlayout.NumberKey(5)}},
		{ID: "y", Keys: map[string]rowlayout.Key{"metric": rowlayout.NumberKey(1)}},
	}, rowlayout.SortState{Column: "metric"}, rowlayout.NewCompare(language.Und))

	pos := rowlayout.Positions(rows, 40)
	fmt.Println(pos["y"], pos["x"])
	// Output: 0 40
}
