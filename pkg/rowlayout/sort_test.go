package rowlayout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"golang.org/x/text/language"
)

func nameRow(id, name string) Row {
	return Row{ID: id, Label: name, Keys: map[string]Key{"name": StringKey(name)}}
}

func metricRow(id string, v float64) Row {
	return Row{ID: id, Keys: map[string]Key{"metric": NumberKey(v)}}
}

func TestSortAndRankByName(t *testing.T) {
	rows := []Row{nameRow("a", "Zack"), nameRow("b", "Amy")}
	cmp := NewCompare(language.Und)

	asc := SortAndRank(rows, SortState{Column: "name"}, cmp)
	if got := IDs(asc); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("ascending = %v, want [b a]", got)
	}

	desc := SortAndRank(rows, SortState{Column: "name", Direction: Descending}, cmp)
	if got := IDs(desc); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("descending = %v, want [a b]", got)
	}
}

func TestSortAndRankTiesKeepInputOrder(t *testing.T) {
	rows := []Row{metricRow("x", 5), metricRow("y", 5), metricRow("z", 5)}
	cmp := NewCompare(language.Und)

	for _, dir := range []Direction{Ascending, Descending} {
		got := IDs(SortAndRank(rows, SortState{Column: "metric", Direction: dir}, cmp))
		if !slices.Equal(got, []string{"x", "y", "z"}) {
			t.Errorf("%s: order = %v, want [x y z]", dir, got)
		}
	}
}

func TestSortAndRankDescendingTieOrder(t *testing.T) {
	// Reversing an ascending result would give [c b a d]; inverting the
	// comparator keeps a before b.
	rows := []Row{metricRow("a", 1), metricRow("b", 1), metricRow("c", 2), metricRow("d", 0)}
	got := IDs(SortAndRank(rows, SortState{Column: "metric", Direction: Descending}, NewCompare(language.Und)))
	want := []string{"c", "a", "b", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestSortAndRankUnsetKeepsOrder(t *testing.T) {
	rows := []Row{nameRow("c", "C"), nameRow("a", "A"), nameRow("b", "B")}
	got := SortAndRank(rows, SortState{}, NewCompare(language.Und))
	if ids := IDs(got); !slices.Equal(ids, []string{"c", "a", "b"}) {
		t.Errorf("order = %v, want input order", ids)
	}
	for i, r := range got {
		if r.Rank != i {
			t.Errorf("row %s rank = %d, want %d", r.ID, r.Rank, i)
		}
	}
}

func TestSortAndRankDoesNotMutateInput(t *testing.T) {
	rows := []Row{nameRow("a", "Zack"), nameRow("b", "Amy")}
	_ = SortAndRank(rows, SortState{Column: "name"}, NewCompare(language.Und))
	if rows[0].ID != "a" || rows[0].Rank != 0 || rows[1].Rank != 0 {
		t.Errorf("input was modified: %+v", rows)
	}
}

func TestCollationIsLocaleAware(t *testing.T) {
	// Byte order puts every uppercase letter before "a" and "É" after "z".
	rows := []Row{nameRow("1", "Zoe"), nameRow("2", "émile"), nameRow("3", "adam"), nameRow("4", "Bruno")}
	got := IDs(SortAndRank(rows, SortState{Column: "name"}, NewCompare(language.Portuguese)))
	want := []string{"3", "4", "2", "1"}
	if !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestCompareMixedKinds(t *testing.T) {
	cmp := NewCompare(language.Und)
	tests := []struct {
		name string
		a, b Key
		want int
	}{
		{"numbers", NumberKey(1), NumberKey(2), -1},
		{"equal numbers", NumberKey(2.5), NumberKey(2.5), 0},
		{"number before string", NumberKey(100), StringKey("a"), -1},
		{"string after number", StringKey("a"), NumberKey(100), 1},
		{"strings", StringKey("b"), StringKey("a"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cmp(tt.a, tt.b)
			if sign(got) != tt.want {
				t.Errorf("compare(%v, %v) = %d, want sign %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func randomRows(r *rand.Rand, n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			ID: fmt.Sprintf("r%d", i),
			Keys: map[string]Key{
				"name":   StringKey(string(rune('a' + r.IntN(4)))),
				"metric": NumberKey(float64(r.IntN(5))),
			},
		}
	}
	return rows
}

func TestSortAndRankProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	cmp := NewCompare(language.Und)

	for iter := 0; iter < 200; iter++ {
		rows := randomRows(r, r.IntN(30))
		state := SortState{
			Column:    []string{"", "name", "metric"}[r.IntN(3)],
			Direction: Direction(r.IntN(2)),
		}
		out := SortAndRank(rows, state, cmp)

		// Permutation.
		in, got := IDs(rows), IDs(out)
		slices.Sort(in)
		slices.Sort(got)
		if !slices.Equal(in, got) {
			t.Fatalf("state %v: not a permutation: %v vs %v", state, in, got)
		}

		// Idempotence.
		again := SortAndRank(out, state, cmp)
		if !slices.Equal(IDs(again), IDs(out)) {
			t.Fatalf("state %v: not idempotent", state)
		}

		// Stability: tied rows keep input order.
		inputIndex := make(map[string]int, len(rows))
		for i, row := range rows {
			inputIndex[row.ID] = i
		}
		for i := 1; i < len(out); i++ {
			a, b := out[i-1], out[i]
			if state.IsSet() && cmp(a.Keys[state.Column], b.Keys[state.Column]) == 0 &&
				inputIndex[a.ID] > inputIndex[b.ID] {
				t.Fatalf("state %v: tie %s/%s out of input order", state, a.ID, b.ID)
			}
		}

		// Positions strictly increase with rank.
		pos := Positions(out, 24)
		for i := 1; i < len(out); i++ {
			if pos[out[i-1].ID] >= pos[out[i].ID] {
				t.Fatalf("positions not increasing at rank %d", i)
			}
		}
	}
}

func TestPositions(t *testing.T) {
	rows := []Row{{ID: "a", Rank: 0}, {ID: "b", Rank: 1}, {ID: "c", Rank: 2}}
	pos := Positions(rows, 80)
	want := map[string]float64{"a": 0, "b": 80, "c": 160}
	for id, w := range want {
		if pos[id] != w {
			t.Errorf("pos[%s] = %v, want %v", id, pos[id], w)
		}
	}
}

func TestStriped(t *testing.T) {
	for rank, want := range []bool{false, true, false, true} {
		if got := Striped(rank); got != want {
			t.Errorf("Striped(%d) = %v, want %v", rank, got, want)
		}
	}
}

func TestTransitions(t *testing.T) {
	before := []Row{{ID: "a", Rank: 0}, {ID: "b", Rank: 1}, {ID: "gone", Rank: 2}}
	after := []Row{{ID: "b", Rank: 0}, {ID: "a", Rank: 1}, {ID: "new", Rank: 2}}

	got := Transitions(before, after)
	want := []Move{
		{ID: "b", From: 1, To: 0},
		{ID: "a", From: 0, To: 1},
		{ID: "new", From: -1, To: 2},
		{ID: "gone", From: 2, To: -1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Transitions = %+v, want %+v", got, want)
	}
	if !got[0].Moved() {
		t.Error("b should have moved")
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in      string
		want    Direction
		wantErr bool
	}{
		{"", Ascending, false},
		{"asc", Ascending, false},
		{"Ascending", Ascending, false},
		{"desc", Descending, false},
		{" DESCENDING ", Descending, false},
		{"up", Ascending, true},
	}
	for _, tt := range tests {
		got, err := ParseDirection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDirection(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDirectionReverse(t *testing.T) {
	if Ascending.Reverse() != Descending || Descending.Reverse() != Ascending {
		t.Error("Reverse should flip direction")
	}
	if !errors.Is(fmt.Errorf("wrap: %w", ErrInvalidSortColumn), ErrInvalidSortColumn) {
		t.Error("sentinel should survive wrapping")
	}
}
