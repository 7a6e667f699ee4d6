// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package api

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/patrolmap/internal/cache"
	"github.com/tomtom215/patrolmap/internal/config"
	"github.com/tomtom215/patrolmap/internal/dashboard"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/models"
	"github.com/tomtom215/patrolmap/internal/upstream"
)

// Cache keys of the single-entry caches.
const (
	photosKey   = "photos"
	missionsKey = "missions"
)

// Caches holds one cache per upstream read.
type Caches struct {
	Photos     *cache.Cache
	Missions   *cache.Cache
	WaterTests *cache.Cache
	Locations  *cache.Cache
}

// NewCaches builds the caches from configuration.
func NewCaches(cfg config.CacheConfig) Caches {
	return Caches{
		Photos:     cache.New("photos", cfg.PhotosTTL, 1),
		Missions:   cache.New("missions", cfg.MissionsTTL, 1),
		WaterTests: cache.New("water_tests", cfg.WaterTestsTTL, 64),
		Locations:  cache.New("locations", cfg.LocationTTL, cfg.MaxEntries),
	}
}

// Handler serves the API from an upstream source and a dashboard session.
type Handler struct {
	source    upstream.Source
	session   *dashboard.Session
	caches    Caches
	tablePath string
	startTime time.Time

	// Stored times of the cache entries the session data was built from.
	mu         sync.Mutex
	recordsAt  time.Time
	missionsAt time.Time
}

// NewHandler creates a handler. tablePath is the resolution table file
// served at /exports/location-resolutions.json.
func NewHandler(source upstream.Source, session *dashboard.Session, caches Caches, tablePath string) *Handler {
	return &Handler{
		source:    source,
		session:   session,
		caches:    caches,
		tablePath: tablePath,
		startTime: time.Now(),
	}
}

// Session returns the dashboard session.
func (h *Handler) Session() *dashboard.Session {
	return h.session
}

func (h *Handler) photos(ctx context.Context) (map[string]models.Document, cache.Result, error) {
	return cache.Load(ctx, h.caches.Photos, photosKey, h.source.Records)
}

func (h *Handler) missions(ctx context.Context) (map[string]models.Document, cache.Result, error) {
	return cache.Load(ctx, h.caches.Missions, missionsKey, h.source.Missions)
}

func (h *Handler) waterTests(ctx context.Context, q waterTestQuery) (map[string]models.Document, error) {
	key := cache.GenerateKey("waterTests", q)
	docs, _, err := cache.Load(ctx, h.caches.WaterTests, key, func(ctx context.Context) (map[string]models.Document, error) {
		return h.source.WaterTests(ctx, q.Type, q.Limit)
	})
	return docs, err
}

// Refresh reloads photos and missions through the caches and swaps the
// session dataset when either changed. A mission read failure leaves the
// missions empty rather than failing the refresh.
func (h *Handler) Refresh(ctx context.Context) error {
	records, rres, err := h.photos(ctx)
	if err != nil {
		return err
	}
	missions, mres, err := h.missions(ctx)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Mission read failed, continuing without missions")
		missions = map[string]models.Document{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session.Data() != nil && rres.StoredAt.Equal(h.recordsAt) && mres.StoredAt.Equal(h.missionsAt) {
		return nil
	}
	data := dashboard.NewData(records, missions)
	h.session.SetData(data)
	h.recordsAt, h.missionsAt = rres.StoredAt, mres.StoredAt

	prefilled := h.session.Warm(ctx)
	logging.Ctx(ctx).Info().
		Int("records", len(data.Records)).
		Int("missions", len(data.Missions)).
		Int("prefilled", prefilled).
		Msg("Dashboard dataset refreshed")
	return nil
}

// Enrich runs a location enrichment pass over the current dataset.
func (h *Handler) Enrich(ctx context.Context) (int, error) {
	return h.session.Enrich(ctx)
}
