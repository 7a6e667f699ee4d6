// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/tomtom215/patrolmap/internal/cache"
)

const healthPingTimeout = 2 * time.Second

// HealthStatus is the /health body.
type HealthStatus struct {
	Status         string                 `json:"status"`
	Upstream       string                 `json:"upstream"`
	UpstreamError  string                 `json:"upstreamError,omitempty"`
	Enriching      bool                   `json:"enriching"`
	DictionarySize int                    `json:"dictionarySize"`
	Records        int                    `json:"records"`
	FetchedAt      *time.Time             `json:"fetchedAt,omitempty"`
	Uptime         float64                `json:"uptimeSeconds"`
	Caches         map[string]cache.Stats `json:"caches"`
}

// Health reports upstream reachability, dictionary size and whether an
// enrichment pass is running. An unreachable upstream is "degraded", not
// an error: cached copies may still be served.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	dict := h.session.Dictionary()
	status := HealthStatus{
		Status:         "ok",
		Upstream:       h.source.Name(),
		Enriching:      dict.Running(),
		DictionarySize: dict.Len(),
		Uptime:         time.Since(h.startTime).Seconds(),
		Caches:         map[string]cache.Stats{},
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()
	if err := h.source.Ping(ctx); err != nil {
		status.Status = "degraded"
		status.UpstreamError = err.Error()
	}

	if data := h.session.Data(); data != nil {
		status.Records = len(data.Records)
		fetched := data.FetchedAt
		status.FetchedAt = &fetched
	}
	for _, c := range []*cache.Cache{h.caches.Photos, h.caches.Missions, h.caches.WaterTests, h.caches.Locations} {
		status.Caches[c.Name()] = c.GetStats()
	}

	respondJSON(w, http.StatusOK, status)
}

// ResolutionExport serves the resolution table file used by the resolver.
func (h *Handler) ResolutionExport(w http.ResponseWriter, r *http.Request) {
	if h.tablePath == "" {
		respondError(w, http.StatusNotFound, "resolution table not configured")
		return
	}
	info, err := os.Stat(h.tablePath)
	if err != nil || info.IsDir() {
		if err == nil || errors.Is(err, os.ErrNotExist) {
			respondError(w, http.StatusNotFound, "resolution table not found")
			return
		}
		respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	http.ServeFile(w, r, h.tablePath)
}
