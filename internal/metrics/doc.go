// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package metrics provides Prometheus metrics for the Patrolmap server.

All collectors are registered with the default registry via promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8787/metrics

# Available Metrics

API Metrics:
  - api_requests_total (method, endpoint, status_code)
  - api_request_duration_seconds (method, endpoint)
  - api_active_requests
  - api_rate_limit_hits_total (endpoint)

Upstream Metrics:
  - upstream_cache_hits_total, upstream_cache_misses_total (source)
  - upstream_cache_stale_served_total (source)
  - upstream_read_duration_seconds, upstream_read_errors_total (source)
  - dataset_fetch_attempts_total

Location Metrics:
  - location_resolutions_total (stage)
  - geocoder_call_duration_seconds, geocoder_errors_total (provider)
  - geocoder_queue_depth
  - location_dictionary_entries
  - location_enrichment_runs_total (result)

Circuit Breaker Metrics:
  - circuit_breaker_state (name)
  - circuit_breaker_requests_total (name, result)
  - circuit_breaker_state_transitions_total (name, from_state, to_state)
*/
package metrics
