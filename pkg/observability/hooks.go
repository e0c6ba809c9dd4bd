// Package observability lets an application observe queries, layout
// publications and cache traffic without the libraries depending on a
// metrics or tracing stack.
//
// Libraries report through the registered hooks, which default to no-ops:
//
//	observability.Query().OnQueryStart(ctx, "metric", q)
//
// Applications register implementations once at startup, for example
// [UseLogger] to turn every event into a debug log line.
package observability

import (
	"context"
	"sync"
	"time"
)

// QueryHooks observes the record query adapter.
type QueryHooks interface {
	OnQueryStart(ctx context.Context, typeTag, query string)
	OnQueryComplete(ctx context.Context, typeTag, query string, count int, duration time.Duration, err error)
}

// LayoutHooks observes the layout publisher.
type LayoutHooks interface {
	// OnPublish fires once per grid publication. replaced is true when the
	// node took over existing cells instead of adding a row.
	OnPublish(ctx context.Context, nodeType string, rows int, replaced bool, err error)

	// OnStateChange fires once per write to the host state slot.
	OnStateChange(ctx context.Context, keys []string, err error)
}

// CacheHooks observes search result caching. keyType names the kind of
// key ("query").
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQueryStart(context.Context, string, string) {}
func (NoopQueryHooks) OnQueryComplete(context.Context, string, string, int, time.Duration, error) {
}

type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnPublish(context.Context, string, int, bool, error) {}
func (NoopLayoutHooks) OnStateChange(context.Context, []string, error)      {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var hooks struct {
	sync.RWMutex
	query  QueryHooks
	layout LayoutHooks
	cache  CacheHooks
}

func init() { Reset() }

// SetQueryHooks replaces the query hooks. Nil is ignored.
func SetQueryHooks(h QueryHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.query = h
	hooks.Unlock()
}

// SetLayoutHooks replaces the layout hooks. Nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.layout = h
	hooks.Unlock()
}

// SetCacheHooks replaces the cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.Lock()
	hooks.cache = h
	hooks.Unlock()
}

func Query() QueryHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.query
}

func Layout() LayoutHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.layout
}

func Cache() CacheHooks {
	hooks.RLock()
	defer hooks.RUnlock()
	return hooks.cache
}

// Reset restores the no-op hooks.
func Reset() {
	hooks.Lock()
	defer hooks.Unlock()
	hooks.query = NoopQueryHooks{}
	hooks.layout = NoopLayoutHooks{}
	hooks.cache = NoopCacheHooks{}
}
