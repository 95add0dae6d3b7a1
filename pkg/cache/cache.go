// Package cache stores rendered artifacts between runs.
//
// The [Cache] interface has three implementations:
//
//   - [FileCache]: JSON entries under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the serve command
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys come from a [Keyer] so every entry point derives identical keys from
// the same inputs.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLOrder    = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// OrderKeyOpts are the inputs that affect a computed row order.
type OrderKeyOpts struct {
	Kind          string `json:"kind"`
	SortColumn    string `json:"sort_column,omitempty"`
	SortDirection string `json:"sort_direction,omitempty"`
	Language      string `json:"language,omitempty"`
}

// ArtifactKeyOpts are the inputs that affect a rendered artifact.
type ArtifactKeyOpts struct {
	OrderKeyOpts
	Format     string  `json:"format"`
	Delay      float64 `json:"delay"`
	RowHeight  float64 `json:"row_height,omitempty"`
	Width      float64 `json:"width,omitempty"`
	BasePath   string  `json:"base_path,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	Transition int64   `json:"transition_ms,omitempty"`
}

// Keyer derives cache keys from a dataset hash and options.
type Keyer interface {
	OrderKey(datasetHash string, opts OrderKeyOpts) string
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the keyer used by the CLI and server.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OrderKey returns "order:<hash>".
func (DefaultKeyer) OrderKey(datasetHash string, opts OrderKeyOpts) string {
	return hashKey("order", datasetHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", datasetHash, opts)
}
