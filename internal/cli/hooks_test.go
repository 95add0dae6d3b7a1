package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classviz/pkg/observability"
	"github.com/matzehuels/classviz/pkg/pipeline"
)

func TestInstallDebugHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.DebugLevel)
	c.InstallDebugHooks()

	r := pipeline.NewRunner(nil, nil, c.Logger)
	if _, err := r.Execute(context.Background(), pipeline.Options{Data: []byte(timelineJSON), SortColumn: "stats"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	observability.Sort().OnToggle(context.Background(), "stats", "desc", 2)

	out := buf.String()
	for _, want := range []string{"hook", "import done", "layout done", `sort="stats asc"`, "render done", "sort toggled", "moved=2"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug output missing %q:\n%s", want, out)
		}
	}
}

func TestDebugHooksQuietAtInfo(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, log.InfoLevel)
	c.InstallDebugHooks()
	observability.Cache().OnCacheMiss(context.Background(), "artifact")
	if strings.Contains(buf.String(), "cache miss") {
		t.Errorf("hook logged below the logger level: %s", buf.String())
	}
}
