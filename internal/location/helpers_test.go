// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"sync"

	"github.com/tomtom215/patrolmap/internal/geo"
)

// testNormalizer is shared because building the locale index is slow.
var testNormalizer = geo.NewNormalizer()

// fakeProvider answers from a function and records every call.
type fakeProvider struct {
	name string
	fn   func(lat, lon float64) (geo.Place, error)

	mu    sync.Mutex
	calls []geo.Point
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Reverse(_ context.Context, lat, lon float64) (geo.Place, error) {
	f.mu.Lock()
	f.calls = append(f.calls, geo.Point{Lat: lat, Lon: lon})
	f.mu.Unlock()
	if f.fn == nil {
		return geo.UnknownPlace(), nil
	}
	return f.fn(lat, lon)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func fixedProvider(name string, place geo.Place) *fakeProvider {
	return &fakeProvider{name: name, fn: func(float64, float64) (geo.Place, error) { return place, nil }}
}

func tableRows(rows ...map[string]any) *Table {
	return NewTable(testNormalizer, rows)
}

func row(key string, lat, lon float64, country, constituency string) map[string]any {
	return map[string]any{"key": key, "lat": lat, "lon": lon, "country": country, "constituency": constituency}
}
