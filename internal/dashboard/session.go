// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package dashboard

import (
	"context"
	"sync"

	"github.com/tomtom215/patrolmap/internal/filter"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
)

// Session pairs a dataset with the location dictionary that resolves it.
// The dataset can be swapped while views are being built.
type Session struct {
	dict *location.Dictionary
	opts Options

	mu   sync.RWMutex
	data *Data
}

// NewSession creates a session over data.
func NewSession(data *Data, dict *location.Dictionary, opts Options) *Session {
	return &Session{dict: dict, opts: opts.withDefaults(), data: data}
}

// Data returns the current dataset.
func (s *Session) Data() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// SetData replaces the dataset.
func (s *Session) SetData(data *Data) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// Dictionary returns the session dictionary.
func (s *Session) Dictionary() *location.Dictionary {
	return s.dict
}

// View builds a view from the current dataset and a fresh dictionary snapshot.
func (s *Session) View(c filter.Criteria) View {
	return s.viewWith(s.dict.Snapshot(), c)
}

func (s *Session) viewWith(snap *location.Snapshot, c filter.Criteria) View {
	v := Build(s.Data(), snap, c, s.opts)
	v.Enriching = s.dict.Running()
	return v
}

// Points returns the unique record coordinates of the current dataset.
func (s *Session) Points() []location.KeyedPoint {
	data := s.Data()
	if data == nil {
		return nil
	}
	return location.UniqueCoordinates(data.Records)
}

// Warm fills the dictionary from the offline table so the first view has
// countries for every coordinate the table covers.
func (s *Session) Warm(ctx context.Context) int {
	return s.dict.Prefill(ctx, s.Points())
}

// Enrich runs one background enrichment pass over the current dataset.
func (s *Session) Enrich(ctx context.Context) (int, error) {
	return s.dict.Enrich(ctx, s.Points())
}

// Watch runs an enrichment pass and calls fn with a view rebuilt from
// scratch each time the dictionary gains an entry, then once more when the
// pass ends. fn is never called concurrently.
func (s *Session) Watch(ctx context.Context, c filter.Criteria, fn func(View)) error {
	var mu sync.Mutex
	active := true
	unsubscribe := s.dict.OnUpdate(func(snap *location.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		if active {
			fn(s.viewWith(snap, c))
		}
	})

	resolved, err := s.Enrich(ctx)

	unsubscribe()
	mu.Lock()
	active = false
	mu.Unlock()

	logging.Ctx(ctx).Info().Int("resolved", resolved).Msg("Enrichment pass finished")
	fn(s.View(c))
	return err
}
