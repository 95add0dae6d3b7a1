package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/matzehuels/classviz/pkg/errors"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

func TestParse(t *testing.T) {
	data := []byte(`
[chart]
row_height = 50
delay = 10
language = "pt-BR"
transition = "400ms"

[sort]
column = "stats"
direction = "desc"

[cache]
redis_addr = "localhost:6379"
ttl = "90m"
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Chart.RowHeight != 50 {
		t.Errorf("RowHeight = %v, want 50", cfg.Chart.RowHeight)
	}
	if cfg.Chart.Delay != 10 {
		t.Errorf("Delay = %v, want 10", cfg.Chart.Delay)
	}
	if cfg.Chart.Transition.Duration != 400*time.Millisecond {
		t.Errorf("Transition = %v, want 400ms", cfg.Chart.Transition)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", cfg.Cache.TTL)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q", cfg.Cache.RedisAddr)
	}
	want := rowlayout.SortState{Column: "stats", Direction: rowlayout.Descending}
	if got := cfg.SortState(); got != want {
		t.Errorf("SortState() = %v, want %v", got, want)
	}
	tag, err := cfg.LanguageTag()
	if err != nil {
		t.Fatalf("LanguageTag() error: %v", err)
	}
	if tag != language.MustParse("pt-BR") {
		t.Errorf("LanguageTag() = %v, want pt-BR", tag)
	}
}

func TestParseKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`[chart]
width = 1200
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Chart.Delay != 15 {
		t.Errorf("Delay = %v, want default 15", cfg.Chart.Delay)
	}
	if cfg.Cache.TTL.Duration != DefaultTTL {
		t.Errorf("TTL = %v, want %v", cfg.Cache.TTL, DefaultTTL)
	}
	if cfg.SortState().IsSet() {
		t.Errorf("SortState() = %v, want none", cfg.SortState())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"syntax", `[chart`, errors.ErrCodeInvalidConfig},
		{"unknown key", "[chart]\nrow_hieght = 3\n", errors.ErrCodeInvalidConfig},
		{"negative delay", "[chart]\ndelay = -1\n", errors.ErrCodeInvalidConfig},
		{"negative transition", "[chart]\ntransition = \"-1s\"\n", errors.ErrCodeInvalidConfig},
		{"bad language", "[chart]\nlanguage = \"not a tag!\"\n", errors.ErrCodeInvalidConfig},
		{"bad direction", "[sort]\ndirection = \"sideways\"\n", errors.ErrCodeInvalidDirection},
		{"bad base path", "[chart]\nbase_path = \"<script>\"\n", errors.ErrCodeInvalidPath},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.toml")

	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("Load(optional) error: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(optional) = %+v, want defaults", cfg)
	}

	if _, err := Load(missing, false); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(required) error = %v, want FILE_NOT_FOUND", err)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[sort]\ncolumn = \"name\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path, false)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sort.Column != "name" {
		t.Errorf("Sort.Column = %q, want name", cfg.Sort.Column)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no config dir: %v", err)
	}
	if filepath.Base(path) != "config.toml" || filepath.Base(filepath.Dir(path)) != "classviz" {
		t.Errorf("DefaultPath() = %q", path)
	}
}
