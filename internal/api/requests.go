// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package api

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/patrolmap/internal/filter"
	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/models"
	"github.com/tomtom215/patrolmap/internal/validation"
)

// Water-test limits.
const (
	DefaultWaterTestLimit = 500
	MaxWaterTestLimit     = 2000
)

// MaxRecordLimit bounds the records listed by /api/dashboard.
const MaxRecordLimit = 1000

// parseCriteria reads dashboard filter criteria from the query string.
func parseCriteria(q url.Values) (filter.Criteria, error) {
	c := filter.Criteria{
		Status:       q.Get("status"),
		Year:         q.Get("year"),
		Month:        q.Get("month"),
		Day:          q.Get("day"),
		Country:      q.Get("country"),
		Constituency: q.Get("constituency"),
		Mission:      q.Get("mission"),
		Search:       q.Get("q"),
	}
	if raw := strings.TrimSpace(q.Get("minPieces")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return filter.Criteria{}, badRequest("minPieces must be a number")
		}
		c.MinPieces = math.Max(v, 0)
	}
	c = c.Normalized()
	if err := c.Validate(); err != nil {
		return filter.Criteria{}, err
	}
	return c, nil
}

// parseLimit reads an optional positive integer, clamped to max.
func parseLimit(q url.Values, def, max int) (int, error) {
	raw := strings.TrimSpace(q.Get("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, badRequest("limit must be a positive integer")
	}
	return min(n, max), nil
}

// waterTestQuery is the validated /api/water-tests query.
type waterTestQuery struct {
	Type  string `json:"type" validate:"required,max=32"`
	Limit int    `json:"limit" validate:"gte=1,lte=2000"`
}

func parseWaterTestQuery(q url.Values, def int) (waterTestQuery, models.WaterTestType, error) {
	limit, err := parseLimit(q, def, MaxWaterTestLimit)
	if err != nil {
		return waterTestQuery{}, models.WaterTestType{}, err
	}
	wq := waterTestQuery{Type: strings.TrimSpace(q.Get("type")), Limit: limit}
	if verr := validation.ValidateStruct(&wq); verr != nil {
		return waterTestQuery{}, models.WaterTestType{}, verr
	}
	t, ok := models.LookupWaterTestType(wq.Type)
	if !ok {
		return waterTestQuery{}, models.WaterTestType{}, badRequest("unknown water test type %q", wq.Type)
	}
	wq.Type = t.Key
	return wq, t, nil
}

// coordinateQuery is the validated /api/location-name query.
type coordinateQuery struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

func parseCoordinates(q url.Values) (geo.Point, error) {
	lat, err := parseFloatParam(q, "lat")
	if err != nil {
		return geo.Point{}, err
	}
	lon, err := parseFloatParam(q, "lon")
	if err != nil {
		return geo.Point{}, err
	}
	cq := coordinateQuery{Lat: lat, Lon: lon}
	if verr := validation.ValidateStruct(&cq); verr != nil {
		return geo.Point{}, verr
	}
	return geo.Point{Lat: lat, Lon: lon}, nil
}

func parseFloatParam(q url.Values, name string) (float64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, badRequest("%s is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, badRequest("%s must be a number", name)
	}
	return v, nil
}
