// Package cache is the process-local TTL cache shared by the analytics snapshot and the capability probe.
// Every cached value has an explicit owner that sets, reads and invalidates it.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// TTL is a bounded LRU whose entries expire after a fixed time-to-live.
// A zero TTL disables caching: Get always misses and Set is a no-op.
type TTL[K comparable, V any] struct {
	lru *lru.LRU[K, V]
}

// New creates a TTL cache holding at most size entries.
func New[K comparable, V any](size int, ttl time.Duration) *TTL[K, V] {
	if ttl <= 0 {
		return &TTL[K, V]{}
	}
	if size < 1 {
		size = 1
	}
	return &TTL[K, V]{lru: lru.NewLRU[K, V](size, nil, ttl)}
}

// Enabled reports whether the cache stores anything.
func (c *TTL[K, V]) Enabled() bool { return c != nil && c.lru != nil }

// Get returns the cached value for key, if present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	if !c.Enabled() {
		var zero V
		return zero, false
	}
	return c.lru.Get(key)
}

// Set stores value under key.
func (c *TTL[K, V]) Set(key K, value V) {
	if !c.Enabled() {
		return
	}
	c.lru.Add(key, value)
}

// Invalidate drops every entry.
func (c *TTL[K, V]) Invalidate() {
	if !c.Enabled() {
		return
	}
	c.lru.Purge()
}
