// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream read cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_cache_hits_total",
			Help: "Upstream reads served from the TTL cache",
		},
		[]string{"source"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_cache_misses_total",
			Help: "Upstream reads that went to the source",
		},
		[]string{"source"},
	)

	CacheStaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_cache_stale_served_total",
			Help: "Stale cache values returned because a refresh failed",
		},
		[]string{"source"},
	)

	UpstreamReadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_read_duration_seconds",
			Help:    "Duration of reads against the upstream document store",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	UpstreamReadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_read_errors_total",
			Help: "Failed reads against the upstream document store",
		},
		[]string{"source"},
	)

	DatasetFetchAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_fetch_attempts_total",
			Help: "Attempts to fetch the record collection, including retries",
		},
	)

	// Location resolution
	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_resolutions_total",
			Help: "Coordinate resolutions by the stage that produced the final answer",
		},
		[]string{"stage"}, // "offline", "photon", "ring", "nominatim", "unresolved"
	)

	GeocoderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocoder_call_duration_seconds",
			Help:    "Duration of reverse-geocoding calls in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 6, 10},
		},
		[]string{"provider"},
	)

	GeocoderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocoder_errors_total",
			Help: "Failed reverse-geocoding calls",
		},
		[]string{"provider"},
	)

	GeocoderQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocoder_queue_depth",
			Help: "Lookups waiting for the rate-limited geocoder worker",
		},
	)

	DictionaryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "location_dictionary_entries",
			Help: "Entries held in the location dictionary",
		},
	)

	EnrichmentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_enrichment_runs_total",
			Help: "Enrichment passes by outcome",
		},
		[]string{"result"}, // "completed", "skipped", "cancelled"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRead records one read against the document store.
func RecordUpstreamRead(source string, duration time.Duration, err error) {
	UpstreamReadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if err != nil {
		UpstreamReadErrors.WithLabelValues(source).Inc()
	}
}

// RecordGeocoderCall records one reverse-geocoding call.
func RecordGeocoderCall(provider string, duration time.Duration, err error) {
	GeocoderCallDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if err != nil {
		GeocoderErrors.WithLabelValues(provider).Inc()
	}
}
