// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package middleware provides the HTTP middleware mounted on the API router.

Key Components:

  - RequestID: accepts or generates X-Request-ID and stores it, with a new
    correlation id, in the request context for logging
  - RequestLogger: one structured log line per request
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled
    by chi route pattern
  - Compression: chi's gzip/deflate negotiation for JSON and text bodies

All middleware has the func(http.Handler) http.Handler shape used by chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
*/
package middleware
