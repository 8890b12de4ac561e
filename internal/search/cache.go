package search

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// CachedResolver memoizes saved query lookups for a fixed TTL.
// Failed lookups are not cached.
type CachedResolver struct {
	source SavedQueryResolver
	cache  *ristretto.Cache[string, string]
	ttl    time.Duration
}

// NewCachedResolver wraps source with an in-memory cache.
func NewCachedResolver(source SavedQueryResolver, ttl time.Duration) (*CachedResolver, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 1e4,     // number of keys to track frequency of (10k).
		MaxCost:     1 << 20, // maximum cost of cache (1MB of query text).
		BufferItems: 64,      // number of keys per Get buffer.
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create saved query cache: %w", err)
	}
	return &CachedResolver{
		source: source,
		cache:  cache,
		ttl:    ttl,
	}, nil
}

// ResolveSavedQuery implements SavedQueryResolver.
func (r *CachedResolver) ResolveSavedQuery(ctx context.Context, id string) (string, error) {
	if query, found := r.cache.Get(id); found {
		return query, nil
	}
	query, err := r.source.ResolveSavedQuery(ctx, id)
	if err != nil {
		return "", err
	}
	r.cache.SetWithTTL(id, query, int64(len(query)), r.ttl)
	r.cache.Wait()
	return query, nil
}

// Close stops the cache's background goroutines.
func (r *CachedResolver) Close() {
	r.cache.Close()
}
