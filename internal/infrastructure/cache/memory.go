package cache

import (
	"context"
	"sync"
	"time"

	"github.com/msmeconnect/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are swept
const DefaultCleanupInterval = 10 * time.Minute

type cacheItem struct {
	value      interface{}
	expiration time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return now.After(i.expiration)
}

// MemoryCache is a goroutine-safe in-memory cache with per-entry TTL.
// Values are stored as given; callers must not mutate them after Set.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
	now   func() time.Time
}

// NewMemoryCache creates a cache whose sweeper runs until ctx is done.
// A non-positive interval disables the sweeper; expired entries are then
// only hidden, not removed.
func NewMemoryCache(ctx context.Context, cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
		now:  time.Now,
	}
	if cleanupInterval > 0 {
		go c.sweep(ctx, cleanupInterval)
	}
	return c
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.data[key]
	if !ok || item.expired(c.now()) {
		return nil, domain.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		value:      value,
		expiration: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return !item.expired(c.now()), nil
}

func (c *MemoryCache) sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if item.expired(now) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items, expired or not
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
