// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package main is the entry point for the patrolmap server.
//
// The server proxies the litter-report database to dashboards and serves a
// server-side dashboard view built from the same data.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: .env, then koanf defaults, config.yaml, environment
//  2. Logging: zerolog with optional lumberjack rotation
//  3. Upstream: MongoDB or a JSON export file
//  4. Location: resolution table, Photon and Nominatim behind breakers,
//     persisted dictionary (badger)
//  5. Caches and the dashboard session
//  6. Supervisor tree: enrichment service and HTTP server
//
// # Configuration
//
// Frequently used environment variables:
//
//	PORT=8787
//	UPSTREAM_KIND=mongo
//	MONGO_URI=mongodb://localhost:27017
//	MONGO_DATABASE=planetpatrol
//	PHOTOS_CACHE_TTL=5m
//	LIVE_GEOCODING=true
//	RESOLUTION_TABLE_PATH=exports/location-resolutions.json
//	STORE_PATH=data/dictionary
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for
// SHUTDOWN_TIMEOUT, then the dictionary store and upstream are closed.
package main
