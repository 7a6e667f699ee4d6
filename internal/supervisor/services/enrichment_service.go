// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
)

// DefaultEnrichmentInterval is used when the configured interval is not positive.
const DefaultEnrichmentInterval = 10 * time.Minute

// Enricher reloads the dataset and resolves any new coordinates.
type Enricher interface {
	Refresh(ctx context.Context) error
	Enrich(ctx context.Context) (int, error)
}

// EnrichmentService runs a refresh and enrichment pass at start and then on
// every interval tick. Pass failures are logged; the service keeps running
// so cached data stays available.
type EnrichmentService struct {
	enricher Enricher
	interval time.Duration
	name     string
}

// NewEnrichmentService creates the service.
func NewEnrichmentService(enricher Enricher, interval time.Duration) *EnrichmentService {
	if interval <= 0 {
		interval = DefaultEnrichmentInterval
	}
	return &EnrichmentService{
		enricher: enricher,
		interval: interval,
		name:     "location-enrichment",
	}
}

// Serve implements suture.Service.
func (s *EnrichmentService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.runOnce(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *EnrichmentService) runOnce(ctx context.Context) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx)

	if err := s.enricher.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn().Err(err).Msg("Dataset refresh failed")
	}

	start := time.Now()
	n, err := s.enricher.Enrich(ctx)
	switch {
	case errors.Is(err, location.ErrEnrichmentRunning):
		log.Debug().Msg("Location enrichment already running, skipping")
	case err != nil:
		if ctx.Err() == nil {
			log.Warn().Err(err).Int("resolved", n).Msg("Location enrichment failed")
		}
	default:
		log.Info().Int("resolved", n).Dur("duration", time.Since(start)).Msg("Location enrichment pass complete")
	}
}

// String identifies the service in supervisor events.
func (s *EnrichmentService) String() string {
	return s.name
}
