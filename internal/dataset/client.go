// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package dataset fetches the record and mission collections from the
// dashboard API.
//
// Record fetches are retried: each attempt gets a longer timeout and a
// fixed delay separates attempts. When every attempt fails the last error
// is returned unchanged so its message can be shown as-is. Mission fetches
// are best effort and fall back to an empty map.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/patrolmap/internal/dashboard"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
	"github.com/tomtom215/patrolmap/internal/models"
)

const (
	DefaultAttempts    = 3
	DefaultTimeout     = 12 * time.Second
	DefaultTimeoutStep = 6 * time.Second
	DefaultRetryDelay  = time.Second

	recordsPath  = "/api/photos"
	missionsPath = "/api/missions"
)

// Options tunes the retry policy.
type Options struct {
	Attempts    int
	Timeout     time.Duration
	TimeoutStep time.Duration
	RetryDelay  time.Duration
	HTTPClient  *http.Client
}

// Client reads the dashboard API.
type Client struct {
	base string
	http *http.Client
	opts Options
}

// NewClient creates a client for the API at baseURL. Zero options take the
// defaults.
func NewClient(baseURL string, opts Options) *Client {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.TimeoutStep < 0 {
		opts.TimeoutStep = 0
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = 0
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{base: strings.TrimRight(baseURL, "/"), http: client, opts: opts}
}

// FetchRecords returns the record map, retrying transient failures.
func (c *Client) FetchRecords(ctx context.Context) (map[string]models.Document, error) {
	log := logging.Ctx(ctx)
	var records map[string]models.Document
	attempt := 0

	op := func() error {
		timeout := c.opts.Timeout + time.Duration(attempt)*c.opts.TimeoutStep
		attempt++
		metrics.DatasetFetchAttempts.Inc()

		start := time.Now()
		got, err := c.fetchRecords(ctx, timeout)
		metrics.RecordUpstreamRead("dataset", time.Since(start), err)
		if err != nil {
			if !retryable(err) || ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		records = got
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.opts.RetryDelay), uint64(c.opts.Attempts-1)),
		ctx,
	)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Int("max_attempts", c.opts.Attempts).Dur("delay", wait).Msg("Dataset fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) fetchRecords(ctx context.Context, timeout time.Duration) (map[string]models.Document, error) {
	body, err := c.get(ctx, recordsPath, timeout)
	if err != nil {
		return nil, err
	}
	records, err := decodeCollection(body, "photos")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// FetchMissions returns the mission map. Any failure yields an empty map.
func (c *Client) FetchMissions(ctx context.Context) map[string]models.Document {
	body, err := c.get(ctx, missionsPath, c.opts.Timeout)
	if err == nil {
		var missions map[string]models.Document
		if missions, err = decodeCollection(body, "missions"); err == nil {
			return missions
		}
	}
	logging.Ctx(ctx).Debug().Err(err).Msg("Mission fetch failed, continuing without missions")
	return map[string]models.Document{}
}

// Load fetches records and missions concurrently and parses them.
func (c *Client) Load(ctx context.Context) (*dashboard.Data, error) {
	var records, missions map[string]models.Document
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = c.FetchRecords(gctx)
		return err
	})
	g.Go(func() error {
		missions = c.FetchMissions(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dashboard.NewData(records, missions), nil
}

func (c *Client) get(ctx context.Context, path string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// decodeCollection extracts {field: {id: object}} from a JSON payload.
func decodeCollection(body []byte, field string) (map[string]models.Document, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, ErrUnexpectedFormat
	}
	return ValidateCollection(payload, field)
}

// ValidateCollection checks that payload is an object whose field is an
// object of objects.
func ValidateCollection(payload any, field string) (map[string]models.Document, error) {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil, ErrUnexpectedFormat
	}
	items, ok := root[field].(map[string]any)
	if !ok {
		return nil, ErrUnexpectedFormat
	}
	out := make(map[string]models.Document, len(items))
	for id, v := range items {
		doc, ok := v.(map[string]any)
		if !ok {
			return nil, ErrUnexpectedFormat
		}
		out[id] = doc
	}
	return out, nil
}
