// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package testinfra provides container helpers for integration tests.
//
// It uses testcontainers-go to start a throwaway MongoDB server that the
// upstream source tests read from:
//
//	func TestMongoRecords(t *testing.T) {
//	    ctx := context.Background()
//	    mongo := testinfra.StartMongo(t, ctx)
//	    err := mongo.Seed(ctx, "photos", []any{bson.M{"_id": "p1", "pieces": 3}})
//	    // ...
//	}
//
// All files build only with the integration tag. Tests are skipped when
// Docker is unavailable. The first run pulls the image.
package testinfra
