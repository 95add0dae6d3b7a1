// Package config loads classviz settings from a TOML file.
//
// The file is optional. Values it sets override the built-in defaults and
// are in turn overridden by command-line flags:
//
//	[chart]
//	row_height = 50
//	width = 1200
//	delay = 10
//	base_path = "https://cdn.example.edu/"
//	language = "pt-BR"
//
//	[sort]
//	column = "stats"
//	direction = "desc"
//
//	[cache]
//	dir = "/var/cache/classviz"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"

	"github.com/matzehuels/classviz/pkg/errors"
	"github.com/matzehuels/classviz/pkg/rowlayout"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Config is the full configuration file.
type Config struct {
	Chart Chart `toml:"chart"`
	Sort  Sort  `toml:"sort"`
	Cache Cache `toml:"cache"`
}

// Chart holds rendering defaults. Zero values mean "use the chart kind's
// default".
type Chart struct {
	RowHeight  float64  `toml:"row_height"`
	Width      float64  `toml:"width"`
	Delay      float64  `toml:"delay"`
	BasePath   string   `toml:"base_path"`
	Language   string   `toml:"language"`
	Transition Duration `toml:"transition"`
}

// Sort is the initial sort state applied to every chart.
type Sort struct {
	Column    string `toml:"column"`
	Direction string `toml:"direction"`
}

// Cache selects and tunes the artifact cache.
type Cache struct {
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chart: Chart{Delay: 15, Language: "und"},
		Cache: Cache{TTL: Duration{DefaultTTL}},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/classviz/config.toml, or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "classviz", "config.toml"), nil
}

// Load reads and validates the file at path on top of [Default]. A missing
// file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of [Default] and validates the result. Unknown
// keys are rejected so typos do not go unnoticed.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key: %s", undec[0])
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c Config) Validate() error {
	if c.Chart.RowHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.row_height must not be negative")
	}
	if c.Chart.Width < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.width must not be negative")
	}
	if c.Chart.Delay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.delay must not be negative")
	}
	if c.Chart.Transition.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "chart.transition must not be negative")
	}
	if err := errors.ValidateBasePath(c.Chart.BasePath); err != nil {
		return err
	}
	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	if c.Sort.Direction != "" {
		if _, err := rowlayout.ParseDirection(c.Sort.Direction); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDirection, err, "sort.direction")
		}
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// LanguageTag parses Chart.Language. An empty value is the root locale.
func (c Config) LanguageTag() (language.Tag, error) {
	if c.Chart.Language == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(c.Chart.Language)
	if err != nil {
		return language.Und, errors.Wrap(errors.ErrCodeInvalidConfig, err, "chart.language %q", c.Chart.Language)
	}
	return tag, nil
}

// SortState converts Sort into a rowlayout state. It assumes Validate passed.
func (c Config) SortState() rowlayout.SortState {
	dir, _ := rowlayout.ParseDirection(c.Sort.Direction)
	return rowlayout.SortState{Column: c.Sort.Column, Direction: dir}
}
