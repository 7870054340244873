package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, and failures at
// error level. It implements all hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that log to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) OnNormalizeStart(_ context.Context, rows int) {
	h.logger.Debug("normalize start", "rows", rows)
}

func (h *LogHooks) OnNormalizeComplete(_ context.Context, ops int, d time.Duration, err error) {
	h.complete("normalize", d, err, "operations", ops)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, ops, target int, hours float64) {
	h.logger.Debug("layout start", "operations", ops, "target", target, "hours", hours)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, instances int, d time.Duration, err error) {
	h.complete("layout", d, err, "instances", instances)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.complete("render", d, err, "formats", formats)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) complete(stage string, d time.Duration, err error, kv ...any) {
	if err != nil {
		h.logger.Error(stage+" failed", "duration", d, "err", err)
		return
	}
	h.logger.Debug(stage+" done", append(kv, "duration", d)...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
