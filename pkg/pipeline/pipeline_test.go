package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/matzehuels/classviz/pkg/cache"
	"github.com/matzehuels/classviz/pkg/config"
	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	"github.com/matzehuels/classviz/pkg/observability"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

const timelineJSON = `{
  "event": {"title": "Aula 03", "start": "2024-01-01T13:00", "end": "2024-01-01T14:00"},
  "students": [
    {"id": "b", "name": "Bruno", "sessions": [{"start": "2024-01-01T13:20", "end": "2024-01-01T13:40"}]},
    {"id": "c", "name": "Carla", "sessions": []},
    {"id": "a", "name": "Ana", "sessions": [{"start": "2024-01-01T12:50", "end": "2024-01-01T14:10"}]}
  ]
}`

// memCache is an in-memory cache.Cache that counts lookups.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Data: []byte(timelineJSON)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if !slices.Equal(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Delay != engagement.DefaultDelay {
		t.Errorf("Delay = %v, want %v", opts.Delay, engagement.DefaultDelay)
	}
	if opts.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", opts.Language, DefaultLanguage)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	data := []byte(timelineJSON)
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no input", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Data: data, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad kind", Options{Data: data, Kind: "heatmap"}, errors.ErrCodeInvalidKind},
		{"bad direction", Options{Data: data, SortColumn: "name", SortDirection: "up"}, errors.ErrCodeInvalidDirection},
		{"direction without column", Options{Data: data, SortDirection: "desc"}, errors.ErrCodeInvalidSortColumn},
		{"bad language", Options{Data: data, Language: "??"}, errors.ErrCodeInvalidInput},
		{"negative delay", Options{Data: data, Delay: -5}, errors.ErrCodeInvalidInput},
		{"bad base path", Options{Data: data, BasePath: `"><script>`}, errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sort = config.Sort{Column: "stats", Direction: "desc"}
	cfg.Chart.RowHeight = 60
	cfg.Chart.Delay = 5

	opts := Options{Delay: 20}
	opts.ApplyConfig(cfg)
	if opts.SortColumn != "stats" || opts.SortDirection != "desc" {
		t.Errorf("sort = %s %s, want stats desc", opts.SortColumn, opts.SortDirection)
	}
	if opts.RowHeight != 60 {
		t.Errorf("RowHeight = %v, want 60", opts.RowHeight)
	}
	if opts.Delay != 20 {
		t.Errorf("Delay = %v, want flag value 20", opts.Delay)
	}

	// A direction without a column in the file is ignored.
	cfg.Sort = config.Sort{Direction: "desc"}
	opts = Options{Data: []byte(timelineJSON)}
	opts.ApplyConfig(cfg)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("ValidateAndSetDefaults() error = %v", err)
	}
	cfg.Sort = config.Sort{Column: "stats", Direction: "desc"}

	// A column from flags keeps its own direction.
	opts = Options{SortColumn: "name"}
	opts.ApplyConfig(cfg)
	if opts.SortDirection != "" {
		t.Errorf("SortDirection = %q, want empty", opts.SortDirection)
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	r := NewRunner(c, nil, nil)

	opts := Options{
		Data:          []byte(timelineJSON),
		SortColumn:    engagement.ColumnStats,
		SortDirection: "desc",
		Formats:       []string{FormatSVG, FormatJSON},
	}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if res.Dataset.Kind != engagement.KindTimeline {
		t.Errorf("Kind = %v, want timeline", res.Dataset.Kind)
	}
	if res.Stats.Rows != 3 {
		t.Errorf("Stats.Rows = %d, want 3", res.Stats.Rows)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	svg := string(res.Artifacts[FormatSVG])
	if !strings.Contains(svg, `id="row-a" data-rank="0"`) {
		t.Errorf("svg does not rank a first")
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"direction": "desc"`) {
		t.Errorf("json artifact missing sort state: %s", res.Artifacts[FormatJSON])
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !again.CacheHit {
		t.Error("second run should hit the cache")
	}
	if string(again.Artifacts[FormatSVG]) != svg {
		t.Error("cached svg differs from rendered svg")
	}

	opts.Refresh = true
	fresh, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error: %v", err)
	}
	if fresh.CacheHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteCacheKeyedBySort(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	byName := Options{Data: []byte(timelineJSON), SortColumn: engagement.ColumnName}
	if _, err := r.Execute(ctx, byName); err != nil {
		t.Fatal(err)
	}
	byStats := Options{Data: []byte(timelineJSON), SortColumn: engagement.ColumnStats}
	res, err := r.Execute(ctx, byStats)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("a different sort must not reuse the cached artifact")
	}
	if want := []string{"c", "b", "a"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
}

func TestExecuteTransition(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	cfg := config.Default()
	cfg.Chart.Transition = config.Duration{Duration: 300 * time.Millisecond}
	opts := Options{Data: []byte(timelineJSON)}
	opts.ApplyConfig(cfg)

	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "transition: transform 300ms") {
		t.Error("svg does not use the configured transition")
	}

	res, err = r.Execute(ctx, Options{Data: []byte(timelineJSON)})
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheHit {
		t.Error("a different transition must not reuse the cached artifact")
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "transition: transform 750ms") {
		t.Error("svg does not fall back to the default transition")
	}

	if err := (&Options{Data: []byte(timelineJSON), Transition: -time.Second}).ValidateAndSetDefaults(); err == nil {
		t.Error("negative transition accepted")
	}
}

func TestExecuteWeightsHeaviestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	data := []byte(`[
  {"key": "quiz", "title": "Quizzes", "weight": 2},
  {"key": "exam", "title": "Exam", "weight": 5},
  {"key": "lab", "title": "Labs", "weight": 3}
]`)

	res, err := r.Execute(ctx, Options{Data: data, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if want := []string{"exam", "lab", "quiz"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "Weight ▼") {
		t.Error("svg should mark the default weight sort")
	}

	// An explicit sort replaces the default.
	order, _, err := r.Order(ctx, Options{Data: data, SortColumn: engagement.ColumnTitle})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if want := []string{"exam", "lab", "quiz"}; !slices.Equal(order, want) {
		t.Errorf("Order(title) = %v, want %v", order, want)
	}
	order, hit, err := r.Order(ctx, Options{Data: data})
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if !hit {
		t.Error("default-sorted order should come from the entry Execute stored")
	}
	if want := []string{"exam", "lab", "quiz"}; !slices.Equal(order, want) {
		t.Errorf("Order(default) = %v, want %v", order, want)
	}
}

func TestExecuteActivity(t *testing.T) {
	data := []byte(`{
  "topics": [{"name": "Unit 1", "children": [
    {"id": "v1", "name": "Intro", "type": "video"},
    {"id": "q1", "name": "Quiz", "type": "quiz"}]}],
  "students": [
    {"id": "s1", "name": "Rui", "interactions": {"v1": "viewed"}},
    {"id": "s2", "name": "Ana", "interactions": {"v1": "viewed", "q1": "correct"}}
  ]
}`)
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Data:          data,
		SortColumn:    engagement.ColumnCorrect,
		SortDirection: "desc",
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Dataset.Kind != engagement.KindActivity {
		t.Errorf("Kind = %v, want activity", res.Dataset.Kind)
	}
	if want := []string{"s2", "s1"}; !slices.Equal(res.Order, want) {
		t.Errorf("Order = %v, want %v", res.Order, want)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `data-state="correct"`) {
		t.Error("svg should draw resource states")
	}
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown column", Options{Data: []byte(timelineJSON), SortColumn: "grade"}, errors.ErrCodeInvalidSortColumn},
		{"kind mismatch", Options{Data: []byte(timelineJSON), Kind: engagement.KindPerformance}, errors.ErrCodeInvalidKind},
		{"missing file", Options{Input: "testdata/does-not-exist.json"}, errors.ErrCodeFileNotFound},
		{"malformed", Options{Data: []byte(`{"event": `)}, errors.ErrCodeInvalidDataset},
		{"duplicate ids", Options{Data: []byte(`{"students": [
			{"id": "x", "name": "A", "performances": []},
			{"id": "x", "name": "B", "performances": []}]}`)}, errors.ErrCodeDuplicateRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(ctx, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOrder(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)
	opts := Options{Data: []byte(timelineJSON), SortColumn: engagement.ColumnName, SortDirection: "desc"}

	order, hit, err := r.Order(ctx, opts)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if hit {
		t.Error("first Order() should miss")
	}
	if want := []string{"c", "b", "a"}; !slices.Equal(order, want) {
		t.Errorf("Order() = %v, want %v", order, want)
	}

	again, hit, err := r.Order(ctx, opts)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if !hit {
		t.Error("second Order() should hit")
	}
	if !slices.Equal(again, order) {
		t.Errorf("cached order = %v, want %v", again, order)
	}
}

func TestRankThenToggle(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)
	ds, l, err := r.Rank(ctx, Options{Data: []byte(timelineJSON)})
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	if want := []string{"b", "c", "a"}; !slices.Equal(l.CurrentOrder(), want) {
		t.Errorf("unsorted order = %v, want input order %v", l.CurrentOrder(), want)
	}
	if err := l.ToggleSort(engagement.ColumnName); err != nil {
		t.Fatal(err)
	}

	opts := Options{Data: []byte(timelineJSON), Formats: []string{FormatJSON}}
	_ = opts.ValidateAndSetDefaults()
	out, err := Render(ctx, ds, l, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(out[FormatJSON]), `"moves"`) {
		t.Errorf("json after toggle should list moves: %s", out[FormatJSON])
	}
}

// writeLog records every artifact written, in order.
type writeLog struct {
	*memCache
	mu     sync.Mutex
	writes []cacheWrite
}

type cacheWrite struct {
	key  string
	data []byte
}

func (c *writeLog) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.writes = append(c.writes, cacheWrite{key, data})
	c.mu.Unlock()
	return c.memCache.Set(ctx, key, data, ttl)
}

func TestRenderWithCacheInfoDuringToggles(t *testing.T) {
	ctx := context.Background()
	c := &writeLog{memCache: newMemCache()}
	r := NewRunner(c, nil, nil)

	ds, l, err := r.Rank(ctx, Options{Data: []byte(timelineJSON)})
	if err != nil {
		t.Fatalf("Rank() error: %v", err)
	}
	hash := cache.Hash([]byte(timelineJSON))
	opts := Options{Data: []byte(timelineJSON), Formats: []string{FormatSVG}, Refresh: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	// Expected artifact for every state the toggles can reach.
	want := map[string][]byte{}
	compare := rowlayout.NewCompare(language.Und)
	for _, col := range []string{engagement.ColumnName, engagement.ColumnStats} {
		for _, dir := range []rowlayout.Direction{rowlayout.Ascending, rowlayout.Descending} {
			state := rowlayout.SortState{Column: col, Direction: dir}
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(ds.Kind, state, FormatSVG))
			want[key] = RenderSVG(ds, rowlayout.SortAndRank(ds.Rows(), state, compare), state, opts)
		}
	}
	unsorted := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(ds.Kind, rowlayout.SortState{}, FormatSVG))
	want[unsorted] = RenderSVG(ds, rowlayout.SortAndRank(ds.Rows(), rowlayout.SortState{}, compare), rowlayout.SortState{}, opts)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		columns := []string{engagement.ColumnName, engagement.ColumnStats}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
				_ = l.ToggleSort(columns[(i/3)%2])
			}
		}
	}()

	for range 2000 {
		if _, _, err := r.RenderWithCacheInfo(ctx, ds, hash, l, opts); err != nil {
			t.Fatalf("RenderWithCacheInfo() error: %v", err)
		}
	}
	close(stop)
	wg.Wait()

	if len(c.writes) == 0 {
		t.Fatal("no artifacts were cached")
	}
	bad := 0
	for _, w := range c.writes {
		exp, ok := want[w.key]
		if !ok {
			t.Fatalf("artifact cached under unexpected key %q", w.key)
		}
		if string(exp) != string(w.data) {
			bad++
		}
	}
	if bad > 0 {
		t.Errorf("%d of %d cached artifacts do not match the state in their key", bad, len(c.writes))
	}
}

func TestRenderFrameUsesFrameMoves(t *testing.T) {
	ctx := context.Background()
	ds, l, err := NewRunner(nil, nil, nil).Rank(ctx, Options{Data: []byte(timelineJSON)})
	if err != nil {
		t.Fatal(err)
	}
	if err := l.ToggleSort(engagement.ColumnStats); err != nil {
		t.Fatal(err)
	}
	frame := l.Frame()
	// A later toggle must not leak into the frame taken before it.
	if err := l.ToggleSort(engagement.ColumnStats); err != nil {
		t.Fatal(err)
	}

	opts := Options{Data: []byte(timelineJSON), Formats: []string{FormatJSON}}
	_ = opts.ValidateAndSetDefaults()
	out, err := RenderFrame(ctx, ds, frame, opts)
	if err != nil {
		t.Fatalf("RenderFrame() error: %v", err)
	}
	if !strings.Contains(string(out[FormatJSON]), `"direction": "asc"`) {
		t.Errorf("json should describe the frame's ascending state: %s", out[FormatJSON])
	}
}

func TestLayoutError(t *testing.T) {
	tests := []struct {
		err  error
		code errors.Code
	}{
		{fmt.Errorf("%w: %q", rowlayout.ErrInvalidSortColumn, "x"), errors.ErrCodeInvalidSortColumn},
		{fmt.Errorf("%w: %q", rowlayout.ErrDuplicateRowID, "x"), errors.ErrCodeDuplicateRow},
		{stderrors.New("boom"), ""},
	}
	for _, tt := range tests {
		got := LayoutError(tt.err)
		if errors.GetCode(got) != tt.code {
			t.Errorf("LayoutError(%v) code = %q, want %q", tt.err, errors.GetCode(got), tt.code)
		}
		if !stderrors.Is(got, tt.err) {
			t.Errorf("LayoutError(%v) lost the cause", tt.err)
		}
	}
	if LayoutError(nil) != nil {
		t.Error("LayoutError(nil) should be nil")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnImportComplete(_ context.Context, kind string, rows int, _ time.Duration, err error) {
	h.record(fmt.Sprintf("import %s %d %v", kind, rows, err == nil))
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, kind, sort string, _ time.Duration, err error) {
	h.record(fmt.Sprintf("layout %s %s %v", kind, sort, err == nil))
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.record(fmt.Sprintf("render %s %v", strings.Join(formats, ","), err == nil))
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{
		Data:       []byte(timelineJSON),
		SortColumn: engagement.ColumnStats,
		Formats:    []string{FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"import timeline 3 true",
		"layout timeline stats asc true",
		"render json true",
	}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %q, want %q", hooks.events, want)
	}
}
