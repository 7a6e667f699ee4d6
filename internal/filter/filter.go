// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package filter applies dashboard criteria to a record set.
//
// Every criterion is a conjunct. Cheap per-record checks (status, pieces,
// date) run before dictionary lookups and mission grouping. When a search
// term is active the surviving records carry only the matching categories,
// so aggregation downstream reflects the search.
//
//	view := filter.Filter(records, dict.Snapshot(), missions, criteria)
package filter

import (
	"strconv"
	"strings"

	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/models"
)

// Filter returns the records matching c. The input slice is not modified.
// A nil snapshot treats every record location as unknown.
func Filter(records []models.Record, snap *location.Snapshot, missions map[string]models.Mission, c Criteria) []models.Record {
	c = c.Normalized()
	p := newPredicate(c, missions)

	out := make([]models.Record, 0, len(records))
	for i := range records {
		r := records[i]
		if !p.cheap(&r) {
			continue
		}
		if !p.location(snap, &r) {
			continue
		}
		if !p.mission(&r) {
			continue
		}
		if c.Search != "" {
			matched := matchingCategories(r.Categories, c.Search)
			if len(matched) == 0 {
				continue
			}
			r = r.WithCategories(matched)
		}
		out = append(out, r)
	}
	return out
}

// datePart is one optional calendar filter. An unparseable year never
// matches; an unparseable month or day is ignored.
type datePart struct {
	active  bool
	valid   bool
	value   int
	strict  bool
	extract func(r *models.Record) int
}

func newDatePart(raw string, strict bool, extract func(r *models.Record) int) datePart {
	if raw == "" {
		return datePart{}
	}
	v, ok := parseIntPrefix(raw)
	return datePart{active: true, valid: ok, value: v, strict: strict, extract: extract}
}

func (d datePart) match(r *models.Record) bool {
	if !d.active {
		return true
	}
	if !r.HasDate {
		return false
	}
	if !d.valid {
		return !d.strict
	}
	return d.extract(r) == d.value
}

type predicate struct {
	c        Criteria
	missions map[string]models.Mission
	dates    []datePart
}

func newPredicate(c Criteria, missions map[string]models.Mission) *predicate {
	return &predicate{
		c:        c,
		missions: missions,
		dates: []datePart{
			newDatePart(c.Year, true, func(r *models.Record) int { return r.Date.UTC().Year() }),
			newDatePart(c.Month, false, func(r *models.Record) int { return int(r.Date.UTC().Month()) }),
			newDatePart(c.Day, false, func(r *models.Record) int { return r.Date.UTC().Day() }),
		},
	}
}

func (p *predicate) cheap(r *models.Record) bool {
	switch p.c.Status {
	case StatusModerated:
		if !r.Moderated {
			return false
		}
	case StatusUnmoderated:
		if r.Moderated {
			return false
		}
	}
	pieces := r.Pieces
	if pieces < 0 {
		pieces = 0
	}
	if pieces < p.c.MinPieces {
		return false
	}
	for _, d := range p.dates {
		if !d.match(r) {
			return false
		}
	}
	return true
}

func (p *predicate) location(snap *location.Snapshot, r *models.Record) bool {
	if p.c.Country == "" && p.c.Constituency == "" {
		return true
	}
	var info location.CountryInfo
	if snap != nil {
		info = snap.CountryInfo(*r)
	}
	if p.c.Country != "" && info.CountryKey != p.c.Country {
		return false
	}
	if p.c.Constituency != "" && info.ConstituencyKey != p.c.Constituency {
		return false
	}
	return true
}

func (p *predicate) mission(r *models.Record) bool {
	if p.c.Mission == "" {
		return true
	}
	for _, id := range r.MissionIDs {
		if MissionGroupKey(p.missions, id) == p.c.Mission {
			return true
		}
	}
	return false
}

// MissionGroupKey returns the group of a referenced mission id. Ids with no
// mission document group on their own.
func MissionGroupKey(missions map[string]models.Mission, id string) string {
	if m, ok := missions[id]; ok {
		return m.GroupKey()
	}
	return "id:" + id
}

// matchingCategories returns the categories whose brand or label contains
// the lower-cased term.
func matchingCategories(categories []models.Category, term string) []models.Category {
	var out []models.Category
	for _, cat := range categories {
		brand := strings.ToLower(strings.TrimSpace(cat.Brand))
		label := strings.ToLower(strings.TrimSpace(cat.Label))
		if strings.Contains(brand, term) || strings.Contains(label, term) {
			out = append(out, cat)
		}
	}
	return out
}

// parseIntPrefix reads an optionally signed leading integer, ignoring
// leading whitespace and anything after the digits ("2023abc" is 2023).
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}
