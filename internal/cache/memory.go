package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the process-lifetime memo store shared by the resolver
// and the event normalizer.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache. A zero or negative defaultTTL keeps
// entries until they are deleted or the cache is cleared.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
		cleanupInterval = 0
	}
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a copy of value under key. Forever overrides the default TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	stored := append([]byte(nil), value...)
	switch {
	case ttl == Forever:
		c.cache.Set(key, stored, gocache.NoExpiration)
	case ttl <= 0:
		c.cache.Set(key, stored, gocache.DefaultExpiration)
	default:
		c.cache.Set(key, stored, ttl)
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len reports the number of live entries
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
