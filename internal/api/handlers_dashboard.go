// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package api

import (
	"net/http"

	"github.com/tomtom215/patrolmap/internal/aggregate"
	"github.com/tomtom215/patrolmap/internal/dashboard"
	"github.com/tomtom215/patrolmap/internal/models"
)

// Dashboard builds the dashboard view for the query criteria from the
// cached dataset and the server's location dictionary.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := parseCriteria(q)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	limit, err := parseLimit(q, dashboard.DefaultRecordLimit, MaxRecordLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	// A failed refresh still serves the last dataset the session holds.
	if err := h.Refresh(r.Context()); err != nil && h.session.Data() == nil {
		respondErr(w, r, err)
		return
	}

	opts := dashboard.DefaultOptions()
	opts.RecordLimit = limit
	dict := h.session.Dictionary()
	view := dashboard.Build(h.session.Data(), dict.Snapshot(), c, opts)
	view.Enriching = dict.Running()
	respondJSON(w, http.StatusOK, view)
}

// WaterTestTable serves the formatted result rows of one test type.
func (h *Handler) WaterTestTable(w http.ResponseWriter, r *http.Request) {
	q, t, err := parseWaterTestQuery(r.URL.Query(), DefaultWaterTestLimit)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	docs, err := h.waterTests(r.Context(), q)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	table := aggregate.WaterTestRows(t, models.ParseWaterTests(docs), h.session.Dictionary().Snapshot())
	respondJSON(w, http.StatusOK, table)
}
