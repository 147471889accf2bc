// Package cache provides a small in-memory TTL cache for the public read
// endpoints, flushed whenever the admin mutates anything. The public site
// traffic is almost entirely repeated GETs of the same few listings, so a
// process-local cache is enough; no external cache service is involved.
package cache

import (
	"sync"
	"time"
)

// entry holds a cached response body with its expiry and insertion time.
type entry struct {
	value      []byte
	expiresAt  time.Time
	insertedAt time.Time
}

// Cache is a thread-safe in-memory cache with TTL and max-size eviction.
// At capacity the oldest entry by insertion time is evicted; expired entries
// are dropped lazily on Get.
type Cache struct {
	mu      sync.RWMutex
	items   map[string]*entry
	maxSize int
	ttl     time.Duration
}

// New creates a Cache. maxSize is clamped to at least 1; a non-positive ttl
// falls back to one minute.
func New(maxSize int, ttl time.Duration) *Cache {
	if maxSize < 1 {
		maxSize = 1
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		items:   make(map[string]*entry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get retrieves a cached value. Returns (nil, false) when the key is missing
// or expired.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return e.value, true
}

// Set stores a value, evicting the oldest entry when at capacity.
func (c *Cache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictOldest()
	}
	c.items[key] = &entry{
		value:      value,
		expiresAt:  now.Add(c.ttl),
		insertedAt: now,
	}
}

// Flush removes every entry.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry, c.maxSize)
}

// Size returns the number of stored entries, counting expired ones not yet
// lazily evicted.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the oldest insertion time. Caller holds
// c.mu.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, e := range c.items {
		if first || e.insertedAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.insertedAt
			first = false
		}
	}
	if !first {
		delete(c.items, oldestKey)
	}
}
