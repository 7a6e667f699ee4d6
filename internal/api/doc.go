// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package api serves the patrolmap HTTP API using the chi router.

# Endpoints

Upstream passthrough (TTL cache, single-flight, stale-on-error):

	GET /api/photos                     {"photos": {id: photo}}
	GET /api/missions                   {"missions": {id: mission}}
	GET /api/water-tests?type=&limit=   {"waterTests": {id: test}}
	GET /api/location-name?lat=&lon=    resolved place for one coordinate

Server-side dashboard:

	GET /api/dashboard?status=&minPieces=&year=&month=&day=&country=&constituency=&mission=&q=&limit=
	GET /api/water-tests/table?type=

Operational:

	GET /exports/location-resolutions.json
	GET /health
	GET /metrics

# Errors

Every error body is {"error": "<message>"}. Upstream read failures with no
cached copy are 500 with the message "<Source> read failed: <cause>".
Malformed query parameters are 400.

# Middleware

Request ID and request logging, real IP, panic recovery, CORS
(go-chi/cors), per-IP rate limiting (go-chi/httprate), Prometheus
instrumentation and gzip compression.
*/
package api
