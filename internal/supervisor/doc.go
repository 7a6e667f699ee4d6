// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package supervisor runs the server's long-lived services under suture v4.

# Overview

	RootSupervisor ("patrolmap")
	├── DataSupervisor ("data-layer")
	│   └── EnrichmentService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing enrichment pass (a provider outage, a store error) restarts the
data layer with backoff while the API layer keeps serving cached reads.

Supervisor events (service start, failure, restart, backoff) are logged
through sutureslog with the zerolog-backed slog logger from the logging
package.

# Usage Example

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewEnrichmentService(handler, 10*time.Minute))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tree.Serve(ctx)
*/
package supervisor
