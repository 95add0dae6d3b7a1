package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classviz/pkg/engagement"
	"github.com/matzehuels/classviz/pkg/errors"
	pkgio "github.com/matzehuels/classviz/pkg/io"
)

func TestExportCommandStdout(t *testing.T) {
	input := writeDataset(t)

	var out bytes.Buffer
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"export", input})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	if !strings.Contains(out.String(), `"kind": "timeline"`) {
		t.Errorf("export should add the kind field:\n%s", out.String())
	}
	ds, err := pkgio.ParseDataset(out.Bytes())
	if err != nil {
		t.Fatalf("exported dataset does not re-import: %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("students = %d, want 3", ds.Len())
	}
}

func TestExportCommandStdin(t *testing.T) {
	writeDataset(t)
	var out bytes.Buffer
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetIn(strings.NewReader(`{"items": [{"key": "lab", "title": "Labs", "weight": 3}]}`))
	root.SetOut(&out)
	root.SetArgs([]string{"export", "-", "--kind", "weights"})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out.String(), `"kind": "weights"`) {
		t.Errorf("export from stdin:\n%s", out.String())
	}
}

func TestExportCommandMissingFile(t *testing.T) {
	writeDataset(t)
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"export", filepath.Join(t.TempDir(), "nope.json")})
	err := root.Execute()
	if got := errors.GetCode(err); got != errors.ErrCodeFileNotFound {
		t.Errorf("code = %v, want %v (err: %v)", got, errors.ErrCodeFileNotFound, err)
	}
}

func TestExportCommandFile(t *testing.T) {
	writeDataset(t)
	input := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(input, []byte(`[{"key": "exam", "title": "Exam", "weight": 5}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "canonical.json")

	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetArgs([]string{"export", input, "-o", output})
	if err := root.Execute(); err != nil {
		t.Fatalf("export: %v", err)
	}

	ds, err := pkgio.ImportDataset(output)
	if err != nil {
		t.Fatalf("ImportDataset: %v", err)
	}
	if ds.Kind != engagement.KindWeights || ds.Weights.Items[0].Title != "Exam" {
		t.Errorf("exported %+v", ds)
	}
	data, _ := os.ReadFile(output)
	if !bytes.Contains(data, []byte(`"items"`)) {
		t.Errorf("bare array should be exported as an items document:\n%s", data)
	}
}

func TestExportCommandKindMismatch(t *testing.T) {
	input := writeDataset(t)
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"export", input, "--kind", "performance"})
	if err := root.Execute(); err == nil {
		t.Error("expected a kind mismatch error")
	}
}
