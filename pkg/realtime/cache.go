package realtime

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// Cache keys for the query results a client keeps between refetches.
const (
	KeyStats   = "stats"
	KeyLessons = "lessons"
	KeyTrades  = "trades"
	KeyMe      = "me"
)

// Keys lists every key the reconciler knows about.
var Keys = []string{KeyStats, KeyLessons, KeyTrades, KeyMe}

// QueryCache is the keyed read cache the reconciler patches.
type QueryCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Invalidate(key string)
}

// Fetcher loads a fresh value for a key.
type Fetcher func(ctx context.Context) (any, error)

// MemoryCache keeps entries until they are invalidated; staleness is modelled as removal.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
}

func (c *MemoryCache) Get(key string) (any, bool) {
	return c.items.Get(key)
}

func (c *MemoryCache) Set(key string, value any) {
	c.items.Set(key, value, gocache.NoExpiration)
}

func (c *MemoryCache) Invalidate(key string) {
	c.items.Delete(key)
}

// InvalidateAll marks every entry stale.
func (c *MemoryCache) InvalidateAll() {
	c.items.Flush()
}

// Fetch returns the cached value, or calls fetch and caches its result when the key is absent.
func (c *MemoryCache) Fetch(ctx context.Context, key string, fetch Fetcher) (any, error) {
	if v, ok := c.items.Get(key); ok {
		return v, nil
	}
	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, v)
	return v, nil
}
