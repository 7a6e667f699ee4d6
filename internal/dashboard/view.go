// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package dashboard composes the dashboard view: the filtered records and
// every figure derived from them, computed from one immutable dataset and
// one dictionary snapshot.
package dashboard

import (
	"time"

	"github.com/tomtom215/patrolmap/internal/aggregate"
	"github.com/tomtom215/patrolmap/internal/filter"
	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/models"
)

// DefaultRecordLimit caps the records listed in a view.
const DefaultRecordLimit = 100

// Data is one fetched dataset. It is never mutated after construction.
type Data struct {
	Records   []models.Record
	Missions  map[string]models.Mission
	FetchedAt time.Time
}

// NewData parses raw record and mission documents.
func NewData(records, missions map[string]models.Document) *Data {
	return &Data{
		Records:   models.ParseRecords(records),
		Missions:  models.ParseMissions(missions),
		FetchedAt: time.Now().UTC(),
	}
}

// Options bounds the list sizes of a view.
type Options struct {
	RecordLimit   int
	CategoryLimit int
	MissionLimit  int
}

// DefaultOptions returns the dashboard list sizes.
func DefaultOptions() Options {
	return Options{
		RecordLimit:   DefaultRecordLimit,
		CategoryLimit: aggregate.DefaultCategoryLimit,
		MissionLimit:  aggregate.DefaultMissionLimit,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RecordLimit <= 0 {
		o.RecordLimit = d.RecordLimit
	}
	if o.CategoryLimit <= 0 {
		o.CategoryLimit = d.CategoryLimit
	}
	if o.MissionLimit <= 0 {
		o.MissionLimit = d.MissionLimit
	}
	return o
}

// RecordView is one listed record with its resolved location.
type RecordView struct {
	ID         string               `json:"id"`
	Pieces     float64              `json:"pieces"`
	Moderated  bool                 `json:"moderated"`
	Date       *time.Time           `json:"date,omitempty"`
	Location   *geo.Point           `json:"location,omitempty"`
	Place      location.CountryInfo `json:"place"`
	Flag       string               `json:"flag"`
	Categories []models.Category    `json:"categories"`
	Brands     []aggregate.Total    `json:"brands"`
	Missions   []string             `json:"missions,omitempty"`
}

// View is everything the dashboard renders for one set of criteria.
type View struct {
	Criteria       filter.Criteria               `json:"criteria"`
	Summary        aggregate.Summary             `json:"summary"`
	Brands         []aggregate.Total             `json:"brands"`
	Labels         []aggregate.Total             `json:"labels"`
	Missions       []aggregate.MissionRow        `json:"missions"`
	Series         aggregate.Series              `json:"series"`
	Countries      []aggregate.CountryCount      `json:"countries"`
	Constituencies []aggregate.ConstituencyCount `json:"constituencies"`
	Years          []int                         `json:"years"`
	Records        []RecordView                  `json:"records"`
	Enriching      bool                          `json:"enriching"`
	DictionarySize int                           `json:"dictionarySize"`
	FetchedAt      time.Time                     `json:"fetchedAt"`
}

// Build computes the view. Dropdown options are counted over the whole
// dataset; a selected country or constituency that no longer appears in
// them is cleared before filtering.
func Build(data *Data, places *location.Snapshot, c filter.Criteria, opts Options) View {
	opts = opts.withDefaults()
	if data == nil {
		data = &Data{}
	}
	c = c.Normalized()

	countries := aggregate.CountryCounts(data.Records, places)
	if !hasCountry(countries, c.Country) {
		c = c.SelectCountry("")
	}
	constituencies := aggregate.ConstituencyCounts(data.Records, places, c.Country)
	if !hasConstituency(constituencies, c.Constituency) {
		c.Constituency = ""
	}

	filtered := filter.Filter(data.Records, places, data.Missions, c)

	v := View{
		Criteria:       c,
		Summary:        aggregate.Summarize(filtered),
		Brands:         aggregate.TopCategoryTotals(filtered, aggregate.FieldBrand, opts.CategoryLimit),
		Labels:         aggregate.TopCategoryTotals(filtered, aggregate.FieldLabel, opts.CategoryLimit),
		Missions:       aggregate.MissionLeaderboard(data.Missions, filtered, opts.MissionLimit),
		Series:         aggregate.TimeSeries(filtered, aggregate.ChooseGranularity(c.Year, c.Month)),
		Countries:      countries,
		Constituencies: constituencies,
		Years:          aggregate.YearOptions(data.Records),
		Records:        make([]RecordView, 0, min(len(filtered), opts.RecordLimit)),
		FetchedAt:      data.FetchedAt,
	}
	if places != nil {
		v.DictionarySize = places.Len()
	}
	for i := 0; i < len(filtered) && i < opts.RecordLimit; i++ {
		v.Records = append(v.Records, recordView(filtered[i], places))
	}
	return v
}

func recordView(r models.Record, places *location.Snapshot) RecordView {
	rv := RecordView{
		ID:         r.ID,
		Pieces:     r.Pieces,
		Moderated:  r.Moderated,
		Categories: r.Categories,
		Brands:     aggregate.SummarizeCategoryTotals(r, aggregate.FieldBrand),
		Missions:   r.MissionIDs,
	}
	if rv.Categories == nil {
		rv.Categories = []models.Category{}
	}
	if r.HasDate {
		d := r.Date
		rv.Date = &d
	}
	if r.HasLocation {
		p := r.Location
		rv.Location = &p
	}
	if places != nil {
		rv.Place = places.CountryInfo(r)
	} else {
		rv.Place = location.CountryInfo{Label: geo.UnknownLocation, Country: geo.UnknownCountry}
	}
	rv.Flag = geo.FlagEmoji(rv.Place.CountryCode)
	return rv
}

func hasCountry(rows []aggregate.CountryCount, key string) bool {
	if key == "" {
		return true
	}
	for _, row := range rows {
		if row.Key == key {
			return true
		}
	}
	return false
}

func hasConstituency(rows []aggregate.ConstituencyCount, key string) bool {
	if key == "" {
		return true
	}
	for _, row := range rows {
		if row.Key == key {
			return true
		}
	}
	return false
}
