package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/facetkit/pkg/cache"
	"github.com/matzehuels/facetkit/pkg/observability"
	"github.com/matzehuels/facetkit/pkg/record"
)

const cacheKeyType = "query"

// CachedSearcher serves repeated searches from a cache. Results are stored
// as JSON, so cached records hold decoded JSON values (numbers as float64).
type CachedSearcher struct {
	inner Searcher
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// NewCachedSearcher wraps inner. A nil keyer uses [cache.NewDefaultKeyer];
// a zero ttl uses [cache.TTLQuery].
func NewCachedSearcher(inner Searcher, c cache.Cache, keyer cache.Keyer, ttl time.Duration) *CachedSearcher {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = cache.TTLQuery
	}
	return &CachedSearcher{inner: inner, cache: c, keyer: keyer, ttl: ttl}
}

func (s *CachedSearcher) Search(ctx context.Context, typeTag, q string) ([]record.Record, error) {
	key := s.keyer.QueryKey(typeTag, q)

	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		var raw []map[string]any
		if json.Unmarshal(data, &raw) == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return record.FromMaps(raw), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)

	rs, err := s.inner.Search(ctx, typeTag, q)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rs); err == nil {
		if s.cache.Set(ctx, key, data, s.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return rs, nil
}

var _ Searcher = (*CachedSearcher)(nil)
