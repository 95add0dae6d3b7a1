package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classviz/pkg/observability"
)

// debugHooks reports every observability event as a debug log line.
type debugHooks struct {
	logger *log.Logger
}

// InstallDebugHooks routes pipeline, sort, cache and server events to the
// CLI logger. main calls it for --verbose.
func (c *CLI) InstallDebugHooks() {
	h := debugHooks{logger: c.Logger.WithPrefix("hook")}
	observability.SetPipelineHooks(h)
	observability.SetSortHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h debugHooks) OnImportStart(_ context.Context, kind, source string) {
	h.logger.Debug("import start", "kind", kind, "source", source)
}

func (h debugHooks) OnImportComplete(_ context.Context, kind string, rows int, d time.Duration, err error) {
	h.logger.Debug("import done", "kind", kind, "rows", rows, "duration", d, "error", err)
}

func (h debugHooks) OnLayoutStart(_ context.Context, kind string, rows int) {
	h.logger.Debug("layout start", "kind", kind, "rows", rows)
}

func (h debugHooks) OnLayoutComplete(_ context.Context, kind, sort string, d time.Duration, err error) {
	h.logger.Debug("layout done", "kind", kind, "sort", sort, "duration", d, "error", err)
}

func (h debugHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h debugHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("render done", "formats", formats, "duration", d, "error", err)
}

func (h debugHooks) OnToggle(_ context.Context, column, direction string, moved int) {
	h.logger.Debug("sort toggled", "column", column, "direction", direction, "moved", moved)
}

func (h debugHooks) OnInvalidColumn(_ context.Context, column string) {
	h.logger.Debug("sort rejected", "column", column)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request start", "method", method, "route", route)
}

func (h debugHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("request done", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ observability.PipelineHooks = debugHooks{}
	_ observability.SortHooks     = debugHooks{}
	_ observability.CacheHooks    = debugHooks{}
	_ observability.ServerHooks   = debugHooks{}
)
