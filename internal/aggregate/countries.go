// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import (
	"sort"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/models"
)

// CountryCount is one country dropdown entry.
type CountryCount struct {
	Key     string `json:"key"`
	Country string `json:"country"`
	Code    string `json:"code,omitempty"`
	Flag    string `json:"flag"`
	Count   int    `json:"count"`
}

// ConstituencyCount is one constituency dropdown entry.
type ConstituencyCount struct {
	Key          string `json:"key"`
	Constituency string `json:"constituency"`
	Count        int    `json:"count"`
}

// CountryCounts counts records per resolved country. Records with an
// unknown country are skipped. A group adopts the code of the first member
// that has one.
func CountryCounts(records []models.Record, snap *location.Snapshot) []CountryCount {
	if snap == nil {
		return []CountryCount{}
	}
	byKey := make(map[string]*CountryCount)
	for i := range records {
		info := snap.CountryInfo(records[i])
		if !info.Known() {
			continue
		}
		row, ok := byKey[info.CountryKey]
		if !ok {
			row = &CountryCount{Key: info.CountryKey, Country: info.Country}
			byKey[info.CountryKey] = row
		}
		if row.Code == "" && info.CountryCode != "" {
			row.Code = info.CountryCode
			row.Country = info.Country
		}
		row.Count++
	}

	rows := make([]CountryCount, 0, len(byKey))
	for _, row := range byKey {
		row.Flag = geo.FlagEmoji(row.Code)
		rows = append(rows, *row)
	}
	c := newCollator()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if cmp := c.CompareString(rows[i].Country, rows[j].Country); cmp != 0 {
			return cmp < 0
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// ConstituencyCounts counts records per constituency within one country
// group. Records without a constituency are skipped.
func ConstituencyCounts(records []models.Record, snap *location.Snapshot, countryKey string) []ConstituencyCount {
	if snap == nil || countryKey == "" {
		return []ConstituencyCount{}
	}
	byKey := make(map[string]*ConstituencyCount)
	for i := range records {
		info := snap.CountryInfo(records[i])
		if info.CountryKey != countryKey || info.ConstituencyKey == "" {
			continue
		}
		row, ok := byKey[info.ConstituencyKey]
		if !ok {
			row = &ConstituencyCount{Key: info.ConstituencyKey, Constituency: info.Constituency}
			byKey[info.ConstituencyKey] = row
		}
		row.Count++
	}

	rows := make([]ConstituencyCount, 0, len(byKey))
	for _, row := range byKey {
		rows = append(rows, *row)
	}
	c := newCollator()
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if cmp := c.CompareString(rows[i].Constituency, rows[j].Constituency); cmp != 0 {
			return cmp < 0
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// YearOptions returns the sorted distinct years of dated records.
func YearOptions(records []models.Record) []int {
	seen := make(map[int]struct{})
	for i := range records {
		if records[i].HasDate {
			seen[records[i].Date.UTC().Year()] = struct{}{}
		}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}
