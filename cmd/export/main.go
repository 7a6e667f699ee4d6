// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Command export resolves every rounded record coordinate against Photon and
// writes the location resolution table the server loads offline.
//
//	export --output exports/location-resolutions.json --limit 500
//
// Rows already resolved in the output are kept, so an interrupted run can be
// restarted. GEOCODE_DELAY_MS spaces lookups (default 150) and SAVE_EVERY sets
// how many lookups pass between progress saves (default 50).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/patrolmap/internal/config"
	"github.com/tomtom215/patrolmap/internal/export"
	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/upstream"
)

const (
	defaultOutput  = "exports/location-resolutions.json"
	defaultDelayMS = 150
)

type options struct {
	output    string
	limit     int
	delay     time.Duration
	saveEvery int
	logLevel  string
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, cfg, os.Args[1:], os.Getenv, os.Stderr)
	stop()
	os.Exit(code)
}

func envInt(getenv func(string) string, name string, def int) int {
	if v, err := strconv.Atoi(getenv(name)); err == nil && v >= 0 {
		return v
	}
	return def
}

func parseFlags(getenv func(string) string, args []string, stderr io.Writer) (options, error) {
	o := options{
		delay:     time.Duration(envInt(getenv, "GEOCODE_DELAY_MS", defaultDelayMS)) * time.Millisecond,
		saveEvery: envInt(getenv, "SAVE_EVERY", export.DefaultSaveEvery),
	}
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.output, "output", defaultOutput, "output file")
	fs.IntVar(&o.limit, "limit", 0, "resolve only the N largest coordinate buckets (0 resolves all)")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.limit < 0 {
		return o, fmt.Errorf("--limit must be a positive integer, got %d", o.limit)
	}
	if o.saveEvery == 0 {
		o.saveEvery = export.DefaultSaveEvery
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, getenv func(string) string, stderr io.Writer) int {
	o, err := parseFlags(getenv, args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = o.logLevel
	logCfg.Output = stderr
	logging.Init(logCfg)

	if err := exportTable(ctx, cfg, o); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

func exportTable(ctx context.Context, cfg *config.Config, o options) error {
	source, err := upstream.Open(ctx, upstream.Config{
		Kind: upstream.Kind(cfg.Upstream.Kind),
		File: cfg.Upstream.File,
		Mongo: upstream.MongoConfig{
			URI:            cfg.Upstream.MongoURI,
			Database:       cfg.Upstream.MongoDatabase,
			ConnectTimeout: cfg.Upstream.ConnectTimeout,
		},
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = source.Close(context.WithoutCancel(ctx))
	}()

	photos, err := source.Records(ctx)
	if err != nil {
		return err
	}

	queue := location.NewQueue(o.delay, cfg.Geocode.Timeout)
	defer queue.Close()

	e := &export.Exporter{
		Provider: location.NewPhotonProvider(
			geo.NewNormalizer(),
			&http.Client{Timeout: cfg.Geocode.Timeout},
			cfg.Geocode.PhotonURL,
			cfg.Geocode.UserAgent,
		),
		Queue:     queue,
		Output:    o.output,
		SaveEvery: o.saveEvery,
	}
	_, err = e.Run(ctx, photos, o.limit)
	return err
}
