// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/patrolmap/internal/cache"
	"github.com/tomtom215/patrolmap/internal/geo"
)

// Photos serves every record document.
func (h *Handler) Photos(w http.ResponseWriter, r *http.Request) {
	photos, _, err := h.photos(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"photos": photos})
}

// Missions serves every mission document.
func (h *Handler) Missions(w http.ResponseWriter, r *http.Request) {
	missions, _, err := h.missions(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"missions": missions})
}

// WaterTests serves the newest submissions of one test type.
func (h *Handler) WaterTests(w http.ResponseWriter, r *http.Request) {
	q, _, err := parseWaterTestQuery(r.URL.Query(), DefaultWaterTestLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	docs, err := h.waterTests(r.Context(), q)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"waterTests": docs})
}

type locationNameResponse struct {
	Key  string `json:"key"`
	Flag string `json:"flag"`
	geo.Place
}

// LocationName resolves one coordinate through the location dictionary.
func (h *Handler) LocationName(w http.ResponseWriter, r *http.Request) {
	p, err := parseCoordinates(r.URL.Query())
	if err != nil {
		respondErr(w, r, err)
		return
	}
	dict := h.session.Dictionary()
	place, _, err := cache.Load(r.Context(), h.caches.Locations, p.Key(), func(ctx context.Context) (geo.Place, error) {
		place := dict.Resolve(ctx, p)
		return place, ctx.Err()
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, locationNameResponse{
		Key:   p.Key(),
		Flag:  geo.FlagEmoji(place.CountryCode),
		Place: place,
	})
}
