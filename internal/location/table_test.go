// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomtom215/patrolmap/internal/geo"
)

func TestTableLookup(t *testing.T) {
	t.Parallel()

	table := tableRows(
		row("51.50, -0.10", 51.5, -0.1, "UK", "Greater London"),
		row("", 48.85, 2.35, "France", ""),
		row("", 10, 10, "Unknown country", ""),
		map[string]any{"key": "bad", "lat": "north", "lon": 1, "country": "Spain"},
	)
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", table.Len())
	}

	tests := []struct {
		name         string
		lat, lon     float64
		country      string
		constituency string
	}{
		{"exact key", 51.5, -0.1, "United Kingdom", "Greater London"},
		{"derived key", 48.85, 2.35, "France", ""},
		{"nearest within radius", 51.7, -0.3, "United Kingdom", "Greater London"},
		{"beyond radius", 52.0, -0.1, geo.UnknownCountry, ""},
		{"skipped unknown row", 10, 10, geo.UnknownCountry, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Lookup(tt.lat, tt.lon)
			if got.Country != tt.country || got.Constituency != tt.constituency {
				t.Errorf("Lookup(%v, %v) = %+v, expected %s / %q", tt.lat, tt.lon, got, tt.country, tt.constituency)
			}
		})
	}
}

func TestTableNearestOnlyMatchesWithinRadius(t *testing.T) {
	t.Parallel()

	table := tableRows(row("", 40, 20, "Albania", ""))

	if got := table.Lookup(40.3, 20.1); got.Country != "Albania" {
		t.Errorf("point within 0.35 returned %q, expected Albania", got.Country)
	}
	if got := table.Lookup(40.3, 20.3); got.Known() {
		t.Errorf("point beyond 0.35 returned %q, expected unknown", got.Country)
	}
}

func TestTableNearestTiesKeepTableOrder(t *testing.T) {
	t.Parallel()

	table := tableRows(
		row("", 0.2, 30, "Kenya", ""),
		row("", -0.2, 30, "Tanzania", ""),
	)
	if got := table.Lookup(0, 30); got.Country != "Kenya" {
		t.Errorf("tie resolved to %q, expected the first row (Kenya)", got.Country)
	}
}

func TestTableNearestAcrossCellBoundary(t *testing.T) {
	t.Parallel()

	// Scan a line of query points; every one is 0.3 degrees from a row, so
	// cell boundaries must never hide the candidate.
	for lon := -10.0; lon < 10; lon += 0.37 {
		table := tableRows(row("", 45.3, lon, "Italy", ""))
		if got := table.Lookup(45.0, lon); got.Country != "Italy" {
			t.Fatalf("Lookup(45, %v) = %q, expected Italy", lon, got.Country)
		}
	}
}

func TestEmptyTableLookup(t *testing.T) {
	t.Parallel()

	var nilTable *Table
	if nilTable.Len() != 0 {
		t.Error("nil table should be empty")
	}
	if got := EmptyTable().Lookup(1, 1); got.Known() {
		t.Errorf("empty table returned %+v", got)
	}
}

const tableJSON = `{"generatedAt":"2024-01-01T00:00:00Z","locations":[
	{"key":"51.50, -0.10","lat":51.5,"lon":-0.1,"count":3,"country":"United Kingdom","constituency":"Greater London","status":"ok"},
	{"key":"40.42, -3.70","lat":"40.42","lon":"-3.70","count":1,"country":"España","status":"ok"}
]}`

func TestLoadTableFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "location-resolutions.json")
	if err := os.WriteFile(path, []byte(tableJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	table, err := LoadTable(context.Background(), testNormalizer, path, nil)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", table.Len())
	}
	if got := table.Lookup(40.42, -3.70); got.Country != "Spain" || got.CountryCode != "ES" {
		t.Errorf("localized row = %+v, expected Spain/ES", got)
	}
}

func TestLoadTableFromURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exports/location-resolutions.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tableJSON))
	}))
	defer srv.Close()

	table, err := LoadTable(context.Background(), testNormalizer, srv.URL+"/exports/location-resolutions.json", srv.Client())
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", table.Len())
	}

	_, err = LoadTable(context.Background(), testNormalizer, srv.URL+"/missing.json", srv.Client())
	if !errors.Is(err, ErrProviderStatus) {
		t.Errorf("missing URL error = %v, expected ErrProviderStatus", err)
	}
}

func TestLoadTableErrors(t *testing.T) {
	t.Parallel()

	table, err := LoadTable(context.Background(), testNormalizer, "", nil)
	if err != nil || table.Len() != 0 {
		t.Errorf("empty source = (%v, %v), expected empty table", table.Len(), err)
	}

	if _, err := LoadTable(context.Background(), testNormalizer, filepath.Join(t.TempDir(), "nope.json"), nil); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(context.Background(), testNormalizer, path, nil); err == nil {
		t.Error("expected decode error for corrupt file")
	}
}
