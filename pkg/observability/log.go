package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on Logger.
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger registers LogHooks on l for queries, layout and cache.
func UseLogger(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetQueryHooks(h)
	SetLayoutHooks(h)
	SetCacheHooks(h)
}

func (h LogHooks) OnQueryStart(_ context.Context, typeTag, query string) {
	h.Logger.Debug("query started", "type", typeTag, "query", query)
}

func (h LogHooks) OnQueryComplete(_ context.Context, typeTag, query string, count int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("query failed", "type", typeTag, "query", query, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("query done", "type", typeTag, "records", count, "duration", d)
}

func (h LogHooks) OnPublish(_ context.Context, nodeType string, rows int, replaced bool, err error) {
	h.Logger.Debug("layout published", "type", nodeType, "rows", rows, "replaced", replaced, "err", err)
}

func (h LogHooks) OnStateChange(_ context.Context, keys []string, err error) {
	h.Logger.Debug("state changed", "keys", keys, "err", err)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "key", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "key", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "key", keyType, "bytes", size)
}

var (
	_ QueryHooks  = LogHooks{}
	_ LayoutHooks = LogHooks{}
	_ CacheHooks  = LogHooks{}
)
