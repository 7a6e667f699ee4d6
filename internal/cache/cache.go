// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity bounds a cache created with capacity <= 0.
const DefaultCapacity = 10000

type entry struct {
	key       string
	value     any
	storedAt  time.Time
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// Cache is a thread-safe LRU cache with TTL expiry that keeps expired
// values for stale reads.
type Cache struct {
	name     string
	ttl      time.Duration
	capacity int

	mu    sync.Mutex
	items map[string]*entry
	// head.next is the most recently used, tail.prev the least.
	head  *entry
	tail  *entry
	stats Stats

	group singleflight.Group
	now   func() time.Time
}

// Stats tracks cache performance.
type Stats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	StaleServed int64 `json:"staleServed"`
	Evictions   int64 `json:"evictions"`
	Keys        int   `json:"keys"`
}

// New creates a cache. name labels its metrics.
//
//	photos := cache.New("photos", 5*time.Minute, 0)
func New(name string, ttl time.Duration, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		name:     name,
		ttl:      ttl,
		capacity: capacity,
		items:    make(map[string]*entry),
		head:     &entry{},
		tail:     &entry{},
		now:      time.Now,
	}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Name returns the metrics label of the cache.
func (c *Cache) Name() string { return c.name }

// TTL returns the time-to-live applied by Set.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns a value that has not expired.
func (c *Cache) Get(key string) (any, bool) {
	v, _, ok := c.fresh(key)
	return v, ok
}

func (c *Cache) fresh(key string) (any, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, time.Time{}, false
	}
	c.moveToFront(e)
	return e.value, e.storedAt, true
}

// Peek returns the stored value regardless of expiry, with the time it was stored.
func (c *Cache) Peek(key string) (value any, storedAt time.Time, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, time.Time{}, false
	}
	return e.value, e.storedAt, true
}

// Set stores a value with the cache TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores a value with a custom TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store(key, value, ttl)
}

// store inserts or replaces an entry and returns its stored time.
func (c *Cache) store(key string, value any, ttl time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.items[key]; ok {
		e.value = value
		e.storedAt = now
		e.expiresAt = now.Add(ttl)
		c.moveToFront(e)
		return now
	}

	e := &entry{key: key, value: value, storedAt: now, expiresAt: now.Add(ttl)}
	c.addToFront(e)
	c.items[key] = e
	for len(c.items) > c.capacity {
		c.evictOldest()
	}
	return now
}

// Delete removes a key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.removeEntry(e)
		c.stats.Evictions++
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Evictions += int64(len(c.items))
	c.items = make(map[string]*entry)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns a snapshot of the counters.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Keys = len(c.items)
	return s
}

// HitRate returns the hit rate as a percentage.
func (c *Cache) HitRate() float64 {
	s := c.GetStats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

func (c *Cache) addToFront(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

func (c *Cache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
}

func (c *Cache) moveToFront(e *entry) {
	if c.head.next == e {
		return
	}
	c.unlink(e)
	c.addToFront(e)
}

func (c *Cache) removeEntry(e *entry) {
	c.unlink(e)
	delete(c.items, e.key)
}

func (c *Cache) evictOldest() {
	if oldest := c.tail.prev; oldest != c.head {
		c.removeEntry(oldest)
		c.stats.Evictions++
	}
}

// GenerateKey creates a compact cache key from a method name and parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
