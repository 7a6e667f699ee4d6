// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestBuildOffline(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "resolutions.json")
	doc := `{"locations":[{"key":"51.50, -0.10","lat":51.5,"lon":-0.1,"country":"United Kingdom","status":"ok"}]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	stack := Build(context.Background(), testNormalizer, Setup{TableSource: path})
	defer stack.Close()

	if stack.Table.Len() != 1 {
		t.Fatalf("table rows = %d, expected 1", stack.Table.Len())
	}
	if got := stack.Resolver.Resolve(context.Background(), 51.5, -0.1); got.Country != "United Kingdom" {
		t.Errorf("Resolve() = %+v, expected the table row", got)
	}
}

func TestBuildMissingTableFallsBackToLive(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"features":[{"properties":{"country":"France","countrycode":"FR","state":"Ile-de-France","city":"Paris"}}]}`))
	}))
	defer srv.Close()

	stack := Build(context.Background(), testNormalizer, Setup{
		TableSource:  filepath.Join(t.TempDir(), "absent.json"),
		Live:         true,
		PhotonURL:    srv.URL,
		NominatimURL: srv.URL,
		Client:       srv.Client(),
	})
	defer stack.Close()

	if stack.Table.Len() != 0 {
		t.Errorf("table rows = %d, expected empty fallback", stack.Table.Len())
	}
	if got := stack.Resolver.Resolve(context.Background(), 48.85, 2.35); got.CountryCode != "FR" {
		t.Errorf("Resolve() = %+v, expected live Photon answer", got)
	}
	if calls.Load() == 0 {
		t.Error("live provider was not called")
	}
}
