// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastOptions() Options {
	return Options{Attempts: 3, Timeout: 200 * time.Millisecond, TimeoutStep: 0, RetryDelay: time.Millisecond}
}

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchRecordsSuccess(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/photos" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"photos":{"a":{"pieces":3},"b":{"pieces":"4"}}}`))
	})

	records, err := NewClient(srv.URL+"/", fastOptions()).FetchRecords(context.Background())
	if err != nil {
		t.Fatalf("FetchRecords() error = %v", err)
	}
	if len(records) != 2 || records["b"]["pieces"] != "4" {
		t.Errorf("records = %v", records)
	}
}

func TestFetchRecordsRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"photos":{"a":{}}}`))
	})

	records, err := NewClient(srv.URL, fastOptions()).FetchRecords(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("FetchRecords() = %v, %v", records, err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, expected 3", calls.Load())
	}
}

func TestFetchRecordsSurfacesLastError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := NewClient(srv.URL, fastOptions()).FetchRecords(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("error = %v, expected StatusError 503", err)
	}
	if err.Error() != "API request failed (503)." {
		t.Errorf("message = %q", err.Error())
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, expected 3", calls.Load())
	}
}

func TestFetchRecordsShapeErrorsDoNotRetry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{"array root", `[]`, ErrUnexpectedFormat},
		{"photos array", `{"photos":[]}`, ErrUnexpectedFormat},
		{"photo not object", `{"photos":{"a":5}}`, ErrUnexpectedFormat},
		{"malformed", `{"photos":`, ErrUnexpectedFormat},
		{"empty", `{"photos":{}}`, ErrNoRecords},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var calls atomic.Int32
			srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewClient(srv.URL, fastOptions()).FetchRecords(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, expected %v", err, tt.want)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, expected 1", calls.Load())
			}
		})
	}
}

func TestFetchRecordsTimeout(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	opts := fastOptions()
	opts.Timeout = 20 * time.Millisecond
	opts.Attempts = 2
	_, err := NewClient(srv.URL, opts).FetchRecords(context.Background())
	if !errors.Is(err, ErrTimeout) || err.Error() != "API request timed out." {
		t.Fatalf("error = %v, expected timeout", err)
	}
}

func TestFetchMissionsFallsBackToEmpty(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/photos":
			_, _ = w.Write([]byte(`{"photos":{"a":{"missions":["m1"]}}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	c := NewClient(srv.URL, fastOptions())
	if got := c.FetchMissions(context.Background()); got == nil || len(got) != 0 {
		t.Errorf("FetchMissions() = %v, expected empty map", got)
	}

	data, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(data.Records) != 1 || len(data.Missions) != 0 {
		t.Errorf("data = %+v", data)
	}
}

func TestLoadParsesMissions(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/photos":
			_, _ = w.Write([]byte(`{"photos":{"a":{"pieces":1}}}`))
		case "/api/missions":
			_, _ = w.Write([]byte(`{"missions":{"m1":{"name":"Sky Care 2024","totalPieces":9}}}`))
		}
	})

	data, err := NewClient(srv.URL, fastOptions()).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if m := data.Missions["m1"]; m.TotalPieces != 9 || m.GroupKey() != "sky care" {
		t.Errorf("mission = %+v", m)
	}
}

func TestFetchRecordsRespectsCancellation(t *testing.T) {
	t.Parallel()

	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(srv.URL, fastOptions()).FetchRecords(ctx); err == nil {
		t.Fatal("FetchRecords() with cancelled context should fail")
	}
}
