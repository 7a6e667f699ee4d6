// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package filter

import (
	"errors"
	"testing"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/models"
	"github.com/tomtom215/patrolmap/internal/validation"
)

func point(lat, lon float64) map[string]any {
	return map[string]any{"_latitude": lat, "_longitude": lon}
}

func testSnapshot() *location.Snapshot {
	return location.NewSnapshot(geo.NewNormalizer(), map[string]geo.Place{
		"51.50,-0.10": {Label: "London, United Kingdom", Country: "United Kingdom", CountryCode: "GB", Constituency: "Greater London"},
		"48.85,2.35":  {Label: "Paris, France", Country: "France", CountryCode: "FR"},
	})
}

func ids(records []models.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterEndToEndScenario(t *testing.T) {
	t.Parallel()

	records := models.ParseRecords(map[string]models.Document{
		"a": {"pieces": 10, "published": true, "location": point(51.5, -0.1)},
		"b": {"pieces": 5, "published": false, "location": point(0, 0)},
		"c": {"published": false, "location": point(48.85, 2.35)},
	})
	snap := testSnapshot()

	moderated := Filter(records, snap, nil, Criteria{Status: StatusModerated})
	if !equalIDs(ids(moderated), []string{"a"}) {
		t.Fatalf("moderated = %v, expected [a]", ids(moderated))
	}
	var total float64
	for _, r := range moderated {
		total += r.Pieces
	}
	if total != 10 {
		t.Errorf("moderated pieces = %v, expected 10", total)
	}

	uk := Filter(records, snap, nil, Criteria{Country: "cc:GB"})
	if !equalIDs(ids(uk), []string{"a"}) {
		t.Errorf("country filter = %v, expected [a]", ids(uk))
	}

	all := Filter(records, snap, nil, Criteria{Status: StatusAll})
	if len(all) != 3 {
		t.Errorf("status all kept %d records, expected 3", len(all))
	}
}

func TestFilterSearchNarrowsCategories(t *testing.T) {
	t.Parallel()

	records := models.ParseRecords(map[string]models.Document{
		"a": {"categories": []any{
			map[string]any{"brand": "Coke"},
			map[string]any{"brand": "Pepsi"},
		}},
		"b": {"categories": []any{map[string]any{"brand": "Fanta", "label": "can"}}},
	})

	got := Filter(records, nil, nil, Criteria{Search: "  COKE "})
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("search result = %v, expected [a]", ids(got))
	}
	if len(got[0].Categories) != 1 || got[0].Categories[0].Brand != "Coke" {
		t.Errorf("categories = %+v, expected only Coke", got[0].Categories)
	}
	if len(records[0].Categories) != 2 {
		t.Error("input record categories were modified")
	}

	byLabel := Filter(records, nil, nil, Criteria{Search: "can"})
	if !equalIDs(ids(byLabel), []string{"b"}) {
		t.Errorf("label search = %v, expected [b]", ids(byLabel))
	}
}

func TestFilterStatusAndPieces(t *testing.T) {
	t.Parallel()

	records := models.ParseRecords(map[string]models.Document{
		"a": {"pieces": "12", "published": "TRUE"},
		"b": {"pieces": -4, "moderated": "2023-01-01"},
		"c": {"pieces": 3},
	})

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"empty", Criteria{}, []string{"a", "b", "c"}},
		{"moderated", Criteria{Status: "moderated"}, []string{"a", "b"}},
		{"unmoderated", Criteria{Status: "unmoderated"}, []string{"c"}},
		{"min pieces", Criteria{MinPieces: 3}, []string{"a", "c"}},
		{"negative threshold", Criteria{MinPieces: -10}, []string{"a", "b", "c"}},
		{"combined", Criteria{Status: "moderated", MinPieces: 1}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Filter(records, nil, nil, tt.c)); !equalIDs(got, tt.want) {
				t.Errorf("Filter() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestFilterDates(t *testing.T) {
	t.Parallel()

	records := models.ParseRecords(map[string]models.Document{
		"a": {"updated": "2023-05-14T10:00:00Z"},
		"b": {"created": "2023-06-01T00:00:00Z"},
		"c": {"created": "2022-05-14T23:30:00Z"},
		"d": {"pieces": 1},
	})

	tests := []struct {
		name string
		c    Criteria
		want []string
	}{
		{"year", Criteria{Year: "2023"}, []string{"a", "b"}},
		{"year and month", Criteria{Year: "2023", Month: "5"}, []string{"a"}},
		{"month only", Criteria{Month: "05"}, []string{"a", "c"}},
		{"day", Criteria{Day: "14"}, []string{"a", "c"}},
		{"invalid year matches nothing", Criteria{Year: "abc"}, nil},
		{"invalid month is ignored for dated records", Criteria{Month: "x"}, []string{"a", "b", "c"}},
		{"year prefix", Criteria{Year: "2022abc"}, []string{"c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ids(Filter(records, nil, nil, tt.c)); !equalIDs(got, tt.want) {
				t.Errorf("Filter() = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestFilterConstituencyAndUnknownLocation(t *testing.T) {
	t.Parallel()

	records := models.ParseRecords(map[string]models.Document{
		"a": {"location": point(51.5, -0.1)},
		"b": {"location": point(48.85, 2.35)},
		"c": {"location": point(10, 10)},
		"d": {},
	})
	snap := testSnapshot()

	got := Filter(records, snap, nil, Criteria{Country: "cc:GB", Constituency: "cc:GB|greater london"})
	if !equalIDs(ids(got), []string{"a"}) {
		t.Errorf("constituency filter = %v, expected [a]", ids(got))
	}
	if got := Filter(records, snap, nil, Criteria{Country: "cc:FR", Constituency: "cc:GB|greater london"}); len(got) != 0 {
		t.Errorf("contradictory location filters kept %v", ids(got))
	}
	if got := Filter(records, nil, nil, Criteria{Country: "cc:GB"}); len(got) != 0 {
		t.Errorf("nil snapshot should resolve nothing, kept %v", ids(got))
	}
}

func TestFilterMission(t *testing.T) {
	t.Parallel()

	missions := models.ParseMissions(map[string]models.Document{
		"m1": {"name": "Sky Care 2022"},
		"m2": {"name": "Sky Care Mission 2024"},
		"m3": {"name": "River Clean"},
	})
	records := models.ParseRecords(map[string]models.Document{
		"a": {"missions": []any{"m1"}},
		"b": {"missions": []any{"m3", "m2"}},
		"c": {"missions": "m3"},
		"d": {"missions": []any{"ghost"}},
		"e": {},
	})

	tests := []struct {
		mission string
		want    []string
	}{
		{models.SkyCareGroup, []string{"a", "b"}},
		{"river clean", []string{"b", "c"}},
		{"id:ghost", []string{"d"}},
		{"nope", nil},
	}
	for _, tt := range tests {
		if got := ids(Filter(records, nil, missions, Criteria{Mission: tt.mission})); !equalIDs(got, tt.want) {
			t.Errorf("mission %q = %v, expected %v", tt.mission, got, tt.want)
		}
	}
}

func TestCriteriaSelectionAndValidation(t *testing.T) {
	t.Parallel()

	c := Criteria{Country: "cc:GB", Constituency: "cc:GB|kent"}.SelectMission("sky care")
	if c.Country != "" || c.Constituency != "" || c.Mission != "sky care" {
		t.Errorf("SelectMission() = %+v", c)
	}
	c = c.SelectCountry("cc:FR")
	if c.Mission != "" || c.Country != "cc:FR" {
		t.Errorf("SelectCountry() = %+v", c)
	}

	if err := (Criteria{Status: "moderated", Country: "cc:GB"}).Validate(); err != nil {
		t.Errorf("Validate() unexpected error: %v", err)
	}
	if err := (Criteria{Status: "pending"}).Validate(); err == nil {
		t.Error("Validate() expected error for unknown status")
	}
	if err := (Criteria{Country: "GB"}).Validate(); err == nil {
		t.Error("Validate() expected error for malformed country key")
	}

	for _, c := range []Criteria{
		{Mission: "sky care", Country: "cc:GB"},
		{Mission: "sky care", Constituency: "cc:GB|kent"},
	} {
		var verr *validation.RequestValidationError
		if err := c.Validate(); !errors.As(err, &verr) || verr.Fields()[0].Field != "mission" {
			t.Errorf("Validate(%+v) = %v, expected a mission field error", c, err)
		}
	}
	if err := (Criteria{Mission: "sky care"}).Validate(); err != nil {
		t.Errorf("Validate() mission alone: %v", err)
	}
}

func TestParseIntPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2023", 2023, true},
		{" 7", 7, true},
		{"05", 5, true},
		{"12abc", 12, true},
		{"-3", -3, true},
		{"abc", 0, false},
		{"-", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseIntPrefix(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseIntPrefix(%q) = %d, %v; expected %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
