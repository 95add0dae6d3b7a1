package rowlayout

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"golang.org/x/text/language"
)

func studentRows() []Row {
	return []Row{
		{ID: "a", Keys: map[string]Key{"name": StringKey("Zack"), "stats": NumberKey(30)}},
		{ID: "b", Keys: map[string]Key{"name": StringKey("Amy"), "stats": NumberKey(90)}},
		{ID: "c", Keys: map[string]Key{"name": StringKey("Maria"), "stats": NumberKey(30)}},
	}
}

var columns = []string{"name", "stats"}

func TestNewInitialSort(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := l.CurrentOrder(); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("order = %v, want [b c a]", got)
	}
	if len(l.LastMoves()) != 0 {
		t.Error("LastMoves should be empty after New")
	}
}

func TestNewWithoutSortKeepsInputOrder(t *testing.T) {
	l, err := New(studentRows(), columns)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := l.CurrentOrder(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want input order", got)
	}
	if l.State().IsSet() {
		t.Errorf("state = %v, want none", l.State())
	}
}

func TestNewEmptyRows(t *testing.T) {
	l, err := New(nil, columns, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New with empty rows: %v", err)
	}
	if got := l.CurrentOrder(); len(got) != 0 {
		t.Errorf("order = %v, want empty", got)
	}
	if pos := l.Positions(20); len(pos) != 0 {
		t.Errorf("positions = %v, want empty", pos)
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		opts []Option
		want error
	}{
		{
			name: "unknown initial column",
			rows: studentRows(),
			opts: []Option{WithInitialSort(SortState{Column: "age"})},
			want: ErrInvalidSortColumn,
		},
		{
			name: "unknown initial column with empty rows",
			opts: []Option{WithInitialSort(SortState{Column: "age"})},
			want: ErrInvalidSortColumn,
		},
		{
			name: "row missing key",
			rows: []Row{{ID: "a", Keys: map[string]Key{"name": StringKey("A")}}},
			want: ErrInvalidSortColumn,
		},
		{
			name: "duplicate id",
			rows: append(studentRows(), studentRows()[0]),
			want: ErrDuplicateRowID,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, columns, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToggleSort(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	steps := []struct {
		column string
		state  SortState
		order  []string
	}{
		{"name", SortState{"name", Descending}, []string{"a", "c", "b"}},
		{"stats", SortState{"stats", Ascending}, []string{"a", "c", "b"}},
		{"stats", SortState{"stats", Descending}, []string{"b", "a", "c"}},
		{"name", SortState{"name", Ascending}, []string{"b", "c", "a"}},
	}
	for i, s := range steps {
		if err := l.ToggleSort(s.column); err != nil {
			t.Fatalf("step %d: ToggleSort(%s): %v", i, s.column, err)
		}
		if got := l.State(); got != s.state {
			t.Errorf("step %d: state = %v, want %v", i, got, s.state)
		}
		if got := l.CurrentOrder(); !slices.Equal(got, s.order) {
			t.Errorf("step %d: order = %v, want %v", i, got, s.order)
		}
	}
}

func TestToggleSortSymmetry(t *testing.T) {
	for _, col := range columns {
		l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: col}))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		before := l.CurrentOrder()
		for range 2 {
			if err := l.ToggleSort(col); err != nil {
				t.Fatalf("ToggleSort: %v", err)
			}
		}
		if got := l.CurrentOrder(); !slices.Equal(got, before) {
			t.Errorf("%s: order after double toggle = %v, want %v", col, got, before)
		}
	}
}

func TestToggleSortUnknownColumn(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "stats", Direction: Descending}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	before, state := l.CurrentOrder(), l.State()

	if err := l.ToggleSort("age"); !errors.Is(err, ErrInvalidSortColumn) {
		t.Fatalf("ToggleSort(age) error = %v, want ErrInvalidSortColumn", err)
	}
	if l.State() != state || !slices.Equal(l.CurrentOrder(), before) {
		t.Error("failed toggle must not change the layout")
	}
}

func TestToggleSortRecordsMoves(t *testing.T) {
	rows := []Row{
		{ID: "a", Keys: map[string]Key{"name": StringKey("Zack")}},
		{ID: "b", Keys: map[string]Key{"name": StringKey("Amy")}},
	}
	l, err := New(rows, []string{"name"}, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.ToggleSort("name"); err != nil {
		t.Fatalf("ToggleSort: %v", err)
	}
	want := []Move{{ID: "a", From: 1, To: 0}, {ID: "b", From: 0, To: 1}}
	if got := l.LastMoves(); !slices.Equal(got, want) {
		t.Errorf("LastMoves = %+v, want %+v", got, want)
	}
}

func TestFrameIsConsistent(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := l.ToggleSort("stats"); err != nil {
		t.Fatalf("ToggleSort: %v", err)
	}
	f := l.Frame()
	if err := l.ToggleSort("stats"); err != nil {
		t.Fatalf("ToggleSort: %v", err)
	}

	if f.State != (SortState{Column: "stats", Direction: Ascending}) {
		t.Errorf("Frame.State = %v, want stats asc", f.State)
	}
	want := SortAndRank(studentRows(), f.State, NewCompare(language.Und))
	if !slices.Equal(IDs(f.Rows), IDs(want)) {
		t.Errorf("Frame.Rows = %v, want %v", IDs(f.Rows), IDs(want))
	}
	for _, m := range f.Moves {
		if f.Rows[m.To].ID != m.ID {
			t.Errorf("move %+v does not land on frame row %q", m, f.Rows[m.To].ID)
		}
	}
	if len(f.Moves) == 0 {
		t.Error("Frame.Moves should hold the name → stats transitions")
	}
}

func TestSetRowsKeepsSortState(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "stats", Direction: Descending}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	next := []Row{
		{ID: "d", Keys: map[string]Key{"name": StringKey("Dan"), "stats": NumberKey(10)}},
		{ID: "b", Keys: map[string]Key{"name": StringKey("Amy"), "stats": NumberKey(5)}},
		{ID: "e", Keys: map[string]Key{"name": StringKey("Eve"), "stats": NumberKey(50)}},
	}
	if err := l.SetRows(next); err != nil {
		t.Fatalf("SetRows: %v", err)
	}
	if got := l.CurrentOrder(); !slices.Equal(got, []string{"e", "d", "b"}) {
		t.Errorf("order = %v, want [e d b]", got)
	}
	if err := l.SetRows([]Row{{ID: "x"}}); !errors.Is(err, ErrInvalidSortColumn) {
		t.Errorf("SetRows with missing keys error = %v", err)
	}
	if got := l.CurrentOrder(); !slices.Equal(got, []string{"e", "d", "b"}) {
		t.Errorf("rejected SetRows changed order to %v", got)
	}
}

func TestRowsAreCopies(t *testing.T) {
	l, err := New(studentRows(), columns)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rows := l.Rows()
	rows[0].Keys["name"] = StringKey("changed")
	rows[0].ID = "changed"
	if got := l.Rows()[0]; got.ID != "a" || got.Keys["name"].String() != "Zack" {
		t.Errorf("layout leaked internal state: %+v", got)
	}
}

func TestConcurrentToggles(t *testing.T) {
	l, err := New(studentRows(), columns, WithInitialSort(SortState{Column: "name"}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = l.ToggleSort(columns[i%2])
			_ = l.CurrentOrder()
		}(i)
	}
	wg.Wait()

	rows, state := l.Snapshot()
	want := SortAndRank(studentRows(), state, NewCompare(language.Und))
	if !slices.Equal(IDs(rows), IDs(want)) {
		t.Errorf("snapshot %v does not match state %v", IDs(rows), state)
	}
}
