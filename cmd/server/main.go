// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/patrolmap/internal/api"
	"github.com/tomtom215/patrolmap/internal/config"
	"github.com/tomtom215/patrolmap/internal/dashboard"
	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
	"github.com/tomtom215/patrolmap/internal/store"
	"github.com/tomtom215/patrolmap/internal/supervisor"
	"github.com/tomtom215/patrolmap/internal/supervisor/services"
	"github.com/tomtom215/patrolmap/internal/upstream"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		logging.Fatal().Err(err).Msg("Failed to load .env file")
	}
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(loggingConfig(cfg.Logging))
	defer func() {
		if err := logging.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing log file")
		}
	}()
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin; set CORS_ORIGINS for production")
	}
	logging.Info().
		Str("version", version).
		Str("upstream", cfg.Upstream.Kind).
		Bool("live_geocoding", cfg.Geocode.Live).
		Str("store", cfg.Store.Type).
		Msg("Starting patrolmap server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logging.Error().Err(err).Msg("Server stopped with error")
		stop()
		_ = logging.Close()
		os.Exit(1)
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	source, err := upstream.Open(ctx, upstreamConfig(cfg.Upstream))
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := source.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing upstream")
		}
	}()

	kv, err := store.Open(store.Type(cfg.Store.Type), cfg.Store.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing dictionary store")
		}
	}()

	stack := location.Build(ctx, geo.NewNormalizer(), locationSetup(cfg.Geocode))
	defer stack.Close()

	dict := location.OpenDictionary(ctx, stack.Resolver, kv)
	logging.Info().Int("entries", dict.Len()).Msg("Location dictionary loaded")

	session := dashboard.NewSession(nil, dict, dashboard.DefaultOptions())
	handler := api.NewHandler(source, session, api.NewCaches(cfg.Cache), cfg.Geocode.TablePath)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.Security)))

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	if cfg.Enrichment.Enabled {
		tree.AddDataService(services.NewEnrichmentService(handler, cfg.Enrichment.Interval))
	} else {
		logging.Info().Msg("Background enrichment disabled (ENRICHMENT_ENABLED=false)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	err = tree.Serve(ctx)

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	dict.Save(context.Background())

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
