// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package services provides suture.Service wrappers for patrolmap components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the blocking ListenAndServe pattern to Serve

Enrichment (EnrichmentService):
  - Refreshes the photo and mission caches on an interval
  - Runs a location enrichment pass over newly seen coordinates
  - A pass already in flight (started by a request) is skipped, not awaited

Services return ctx.Err() on shutdown so suture does not restart them.
*/
package services
