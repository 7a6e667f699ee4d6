// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package cache holds upstream read results in memory between requests.

A Cache is a capacity-bounded LRU map of values with a time-to-live. Expired
values are not served by Get but stay in the map until evicted, so Fetch can
fall back to them when a refresh fails.

# Loading

Fetch is the read path used by the HTTP handlers:

	photos, err := cache.Load(ctx, c, "photos", func(ctx context.Context) (map[string]models.Document, error) {
	    return source.Records(ctx)
	})

  - A fresh value is returned without calling the loader.
  - Concurrent misses for one key share a single loader call (singleflight).
  - A loader error returns the last stored value, marked stale, when one exists.
  - Otherwise the loader error is returned unchanged.

The loader runs detached from the caller's cancellation so one client going
away does not fail the other waiters. Callers still stop waiting when their
own context ends.

# Metrics

Hits, misses and stale serves are exported per cache name through the
metrics package (upstream_cache_hits_total and friends).
*/
package cache
