// Package cache provides the in-process tier used to memoise treatment
// comparisons and memory-assistant replies.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Stats represents cache performance statistics
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// MemoryCache is a size-bounded LRU whose entries also expire after a TTL.
// It is safe for concurrent use.
type MemoryCache[V any] struct {
	lru    *expirable.LRU[string, V]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache creates a cache holding at most maxItems entries for ttl
// each. A non-positive maxItems defaults to 1024.
func NewMemoryCache[V any](maxItems int, ttl time.Duration) *MemoryCache[V] {
	if maxItems <= 0 {
		maxItems = 1024
	}
	return &MemoryCache[V]{lru: expirable.NewLRU[string, V](maxItems, nil, ttl)}
}

// Get returns the cached value for key.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	v, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Set stores value under key, evicting the least recently used entry if full.
func (c *MemoryCache[V]) Set(key string, value V) {
	c.lru.Add(key, value)
}

// Delete drops key.
func (c *MemoryCache[V]) Delete(key string) {
	c.lru.Remove(key)
}

// Purge drops every entry.
func (c *MemoryCache[V]) Purge() {
	c.lru.Purge()
}

// Stats returns hit/miss counters and the current size.
func (c *MemoryCache[V]) Stats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
