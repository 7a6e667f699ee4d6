// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

//go:build integration

package testinfra

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

var (
	dockerOnce sync.Once
	dockerErr  error
)

// dockerHealth asks the testcontainers Docker provider whether the daemon
// answers. The result is computed once per test binary.
func dockerHealth() error {
	dockerOnce.Do(func() {
		provider, err := testcontainers.NewDockerProvider()
		if err != nil {
			dockerErr = err
			return
		}
		defer provider.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		dockerErr = provider.Health(ctx)
	})
	return dockerErr
}

// SkipIfNoDocker skips the test in short mode or when Docker is unreachable.
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if err := dockerHealth(); err != nil {
		t.Skipf("Skipping test: Docker not available: %v", err)
	}
}

// StartMongo starts a MongoDB container for t and terminates it when the
// test ends. Start failures fail the test.
func StartMongo(t *testing.T, ctx context.Context, opts ...MongoOption) *MongoContainer {
	t.Helper()
	SkipIfNoDocker(t)

	c, err := NewMongoContainer(ctx, opts...)
	if err != nil {
		t.Fatalf("Failed to start MongoDB: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.WithoutCancel(ctx)); err != nil {
			t.Logf("Warning: failed to terminate MongoDB: %v", err)
		}
	})
	return c
}
