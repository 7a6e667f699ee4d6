// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Command dashboard fetches the dataset from a running patrolmap server and
// prints the dashboard view for a set of filters as JSON.
//
//	dashboard --base-url http://localhost:8787 --status moderated --country cc:GB
//	dashboard --watch --live   # one JSON line per dictionary update
//
// Load failures print the error message and exit with status 1.
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
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/config"
	"github.com/tomtom215/patrolmap/internal/dashboard"
	"github.com/tomtom215/patrolmap/internal/dataset"
	"github.com/tomtom215/patrolmap/internal/filter"
	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/store"
)

type options struct {
	baseURL  string
	table    string
	store    string
	live     bool
	watch    bool
	limit    int
	logLevel string
	criteria filter.Criteria
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
	code := run(ctx, cfg, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(cfg *config.Config, args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.baseURL, "base-url", cfg.Dataset.URL, "patrolmap server URL")
	fs.StringVar(&o.table, "table", cfg.Geocode.TablePath, "resolution table file or URL")
	fs.StringVar(&o.store, "store", "", "badger directory for the location dictionary (empty keeps it in memory)")
	fs.BoolVar(&o.live, "live", cfg.Geocode.Live, "use Photon and Nominatim for coordinates the table does not cover")
	fs.BoolVar(&o.watch, "watch", false, "print a view after every dictionary update until enrichment finishes")
	fs.IntVar(&o.limit, "limit", dashboard.DefaultRecordLimit, "records listed in the view")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level")

	c := &o.criteria
	fs.StringVar(&c.Status, "status", "", "all, moderated or unmoderated")
	fs.Float64Var(&c.MinPieces, "min-pieces", 0, "minimum pieces per record")
	fs.StringVar(&c.Year, "year", "", "year filter")
	fs.StringVar(&c.Month, "month", "", "month filter (1-12)")
	fs.StringVar(&c.Day, "day", "", "day of month filter")
	fs.StringVar(&c.Country, "country", "", "country group key, e.g. cc:GB")
	fs.StringVar(&c.Constituency, "constituency", "", "constituency group key, e.g. cc:GB|kent")
	fs.StringVar(&c.Mission, "mission", "", "mission group key")
	fs.StringVar(&c.Search, "q", "", "brand or label search")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	o.criteria = o.criteria.Normalized()
	if err := o.criteria.Validate(); err != nil {
		return options{}, err
	}
	return o, nil
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(cfg, args, stderr)
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

	client := dataset.NewClient(o.baseURL, dataset.Options{
		Attempts:    cfg.Dataset.Attempts,
		Timeout:     cfg.Dataset.Timeout,
		TimeoutStep: cfg.Dataset.TimeoutStep,
		RetryDelay:  cfg.Dataset.RetryDelay,
	})
	data, err := client.Load(ctx)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}

	kind := store.TypeMemory
	if o.store != "" {
		kind = store.TypeBadger
	}
	kv, err := store.Open(kind, o.store)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	defer kv.Close()

	setup := location.Setup{
		TableSource:  o.table,
		Live:         o.live,
		PhotonURL:    cfg.Geocode.PhotonURL,
		NominatimURL: cfg.Geocode.NominatimURL,
		UserAgent:    cfg.Geocode.UserAgent,
		MinInterval:  cfg.Geocode.MinInterval,
		CallTimeout:  cfg.Geocode.Timeout,
		Client:       &http.Client{Timeout: cfg.Geocode.Timeout},
	}
	stack := location.Build(ctx, geo.NewNormalizer(), setup)
	defer stack.Close()

	dict := location.OpenDictionary(ctx, stack.Resolver, kv)
	opts := dashboard.DefaultOptions()
	opts.RecordLimit = o.limit
	session := dashboard.NewSession(data, dict, opts)
	session.Warm(ctx)

	if !o.watch {
		if err := printView(stdout, session.View(o.criteria), true); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return 1
		}
		return 0
	}

	var printErr error
	err = session.Watch(ctx, o.criteria, func(v dashboard.View) {
		if printErr == nil {
			printErr = printView(stdout, v, false)
		}
	})
	if printErr != nil {
		fmt.Fprintln(stderr, printErr.Error())
		return 1
	}
	if err != nil && ctx.Err() == nil {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	return 0
}

// printView writes v as indented JSON, or as one line when streaming.
func printView(w io.Writer, v dashboard.View, indent bool) error {
	var data []byte
	var err error
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
