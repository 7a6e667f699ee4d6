// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
)

// Result describes where a fetched value came from.
type Result struct {
	Value    any
	StoredAt time.Time
	// Cached is true when no loader ran for this call.
	Cached bool
	// Stale is true when the loader failed and an expired value was served.
	Stale bool
	// Err is the loader error behind a stale value.
	Err error
}

// LoadFunc produces a fresh value for a key.
type LoadFunc func(ctx context.Context) (any, error)

// loaded is what a single-flight load shares with its waiters.
type loaded struct {
	value    any
	storedAt time.Time
}

// Fetch returns a fresh cached value or loads one. See the package
// documentation for the stale-on-error rules.
func (c *Cache) Fetch(ctx context.Context, key string, load LoadFunc) (Result, error) {
	if v, storedAt, ok := c.fresh(key); ok {
		c.recordHit()
		return Result{Value: v, StoredAt: storedAt, Cached: true}, nil
	}
	c.recordMiss()

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		return loaded{value: v, storedAt: c.store(key, v, c.ttl)}, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err == nil {
			l := res.Val.(loaded)
			return Result{Value: l.value, StoredAt: l.storedAt}, nil
		}
		if v, storedAt, ok := c.Peek(key); ok {
			c.recordStale()
			logging.Ctx(ctx).Warn().
				Err(res.Err).
				Str("cache", c.name).
				Str("key", key).
				Time("stored_at", storedAt).
				Msg("Serving stale value after failed refresh")
			return Result{Value: v, StoredAt: storedAt, Cached: true, Stale: true, Err: res.Err}, nil
		}
		return Result{}, res.Err
	}
}

// Load is a typed wrapper around Fetch.
func Load[T any](ctx context.Context, c *Cache, key string, load func(ctx context.Context) (T, error)) (T, Result, error) {
	res, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	var zero T
	if err != nil {
		return zero, res, err
	}
	v, ok := res.Value.(T)
	if !ok {
		return zero, res, fmt.Errorf("cache %s: value for %q has type %T", c.name, key, res.Value)
	}
	return v, res, nil
}

func (c *Cache) recordHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	metrics.CacheHits.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
}

func (c *Cache) recordStale() {
	c.mu.Lock()
	c.stats.StaleServed++
	c.mu.Unlock()
	metrics.CacheStaleServed.WithLabelValues(c.name).Inc()
}
