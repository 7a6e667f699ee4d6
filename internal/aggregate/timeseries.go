// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import (
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/patrolmap/internal/models"
)

// Granularity is the time-series bucket size.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// EpochFallbackYear marks timestamps that were defaulted rather than
// recorded. Buckets in this year are dropped.
const EpochFallbackYear = 1970

// ChooseGranularity picks day buckets when year and month are pinned, month
// buckets when only the year is, and year buckets otherwise.
func ChooseGranularity(year, month string) Granularity {
	y := strings.TrimSpace(year) != ""
	m := strings.TrimSpace(month) != ""
	switch {
	case y && m:
		return GranularityDay
	case y:
		return GranularityMonth
	default:
		return GranularityYear
	}
}

// Bucket is one observed period.
type Bucket struct {
	Key     string    `json:"key"`
	Start   time.Time `json:"start"`
	Pieces  float64   `json:"pieces"`
	Records int       `json:"records"`
}

// Series is a time series with its granularity.
type Series struct {
	Granularity Granularity `json:"granularity"`
	Points      []Bucket    `json:"points"`
}

func bucketStart(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	switch g {
	case GranularityDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func bucketKey(start time.Time, g Granularity) string {
	switch g {
	case GranularityDay:
		return start.Format("2006-01-02")
	case GranularityMonth:
		return start.Format("2006-01")
	default:
		return start.Format("2006")
	}
}

// TimeSeries buckets dated records by g. Only observed periods appear, in
// chronological order.
func TimeSeries(records []models.Record, g Granularity) Series {
	byStart := make(map[time.Time]*Bucket)
	for i := range records {
		r := &records[i]
		if !r.HasDate {
			continue
		}
		if r.Date.UTC().Year() == EpochFallbackYear {
			continue
		}
		start := bucketStart(r.Date, g)
		b, ok := byStart[start]
		if !ok {
			b = &Bucket{Key: bucketKey(start, g), Start: start}
			byStart[start] = b
		}
		if r.Pieces > 0 {
			b.Pieces += r.Pieces
		}
		b.Records++
	}

	points := make([]Bucket, 0, len(byStart))
	for _, b := range byStart {
		points = append(points, *b)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Start.Before(points[j].Start)
	})
	return Series{Granularity: g, Points: points}
}
