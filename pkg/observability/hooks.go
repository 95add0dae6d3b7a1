// Package observability provides hooks for metrics and tracing.
//
// Hooks let a deployment instrument classviz without the library depending
// on a specific backend. Every hook defaults to a no-op; main registers real
// implementations at startup:
//
//	observability.SetPipelineHooks(&promPipelineHooks{})
//	observability.SetCacheHooks(&promCacheHooks{})
//
// Libraries emit events through the getters:
//
//	observability.Pipeline().OnLayoutStart(ctx, "timeline", len(rows))
//	// ... sort and rank ...
//	observability.Pipeline().OnLayoutComplete(ctx, "timeline", state.String(), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the import → layout → render pipeline.
type PipelineHooks interface {
	OnImportStart(ctx context.Context, kind, source string)
	OnImportComplete(ctx context.Context, kind string, rows int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, kind string, rows int)
	OnLayoutComplete(ctx context.Context, kind, sort string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Sort Hooks
// =============================================================================

// SortHooks receives interactive sort changes from the server and the TUI.
type SortHooks interface {
	// OnToggle records a sort toggle and how many rows changed rank.
	OnToggle(ctx context.Context, column, direction string, moved int)

	// OnInvalidColumn records a toggle rejected for an unknown column.
	OnInvalidColumn(ctx context.Context, column string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the dashboard HTTP server.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnImportStart(context.Context, string, string)                          {}
func (NoopPipelineHooks) OnImportComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                             {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, string, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                                {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)       {}

type NoopSortHooks struct{}

func (NoopSortHooks) OnToggle(context.Context, string, string, int) {}
func (NoopSortHooks) OnInvalidColumn(context.Context, string)       {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	sortHooks     SortHooks     = NoopSortHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSortHooks registers sort hooks. nil is ignored.
func SetSortHooks(h SortHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sortHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

func Sort() SortHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sortHooks
}

func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	sortHooks = NoopSortHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
