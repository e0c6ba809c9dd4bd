// Package cache provides the byte caches behind query results and the
// repository object pools.
//
// Backends:
//   - [MemoryCache]: process-local map, used for the repository pools
//   - [FileCache]: JSON entry files under a directory, for CLI runs
//   - [RedisCache]: shared cache for multi-instance host deployments
//   - [NullCache]: never stores anything
//
// Keys are produced by a [Keyer] so different deployments can namespace them
// (see [ScopedKeyer]).
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLQuery bounds how long a search result is reused.
	TTLQuery = 10 * time.Minute
)

// Cache is a byte-oriented key/value cache with expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by the cache.
	Clear(ctx context.Context) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer generates cache keys.
type Keyer interface {
	// QueryKey returns the key for the result of search(typeTag, query).
	QueryKey(typeTag, query string) string
}

// DefaultKeyer generates unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// QueryKey hashes the query so arbitrary query strings make safe keys.
func (DefaultKeyer) QueryKey(typeTag, query string) string {
	return queryKey(typeTag, query)
}
