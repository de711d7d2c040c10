package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries to
// a charm logger. The CLI installs it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	return &LogHooks{Logger: l}
}

// InstallLogHooks registers l as the target of all hook categories.
func InstallLogHooks(l *log.Logger) {
	h := NewLogHooks(l)
	SetLayoutHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, items int) {
	h.Logger.Debug("layout start", "items", items)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, strategy string, items int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "items", items, "duration", d, "error", err)
		return
	}
	h.Logger.Debug("layout done", "strategy", strategy, "items", items, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render start", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, bytes int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.Logger.Debug("render done", "format", format, "bytes", bytes, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
	_ HTTPHooks   = (*LogHooks)(nil)
)
