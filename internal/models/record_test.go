// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package models

import (
	"testing"
	"time"
)

func TestPieces(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  Document
		want float64
	}{
		{"number", Document{"pieces": 10.0}, 10},
		{"numeric string", Document{"pieces": " 7 "}, 7},
		{"missing", Document{}, 0},
		{"garbage", Document{"pieces": "lots"}, 0},
		{"negative", Document{"pieces": -4.0}, 0},
		{"int", Document{"pieces": 3}, 3},
		{"null", Document{"pieces": nil}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Pieces(tt.doc); got != tt.want {
				t.Errorf("Pieces(%v) = %v, expected %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestIsModerated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{"published true", Document{"published": true}, true},
		{"published false beats moderated date", Document{"published": false, "moderated": "2023-01-01"}, false},
		{"published string", Document{"published": " TRUE "}, true},
		{"published string false", Document{"published": "false", "moderated": "2023-01-01"}, false},
		{"unrecognized string falls back", Document{"published": "yes", "moderated": "2023-01-01"}, true},
		{"legacy moderated date", Document{"moderated": "2023-01-01"}, true},
		{"nothing", Document{}, false},
		{"empty moderated", Document{"moderated": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsModerated(tt.doc); got != tt.want {
				t.Errorf("IsModerated(%v) = %v, expected %v", tt.doc, got, tt.want)
			}
		})
	}
}

func TestRecordDatePrecedence(t *testing.T) {
	t.Parallel()

	doc := Document{
		"created":   "2021-01-01T00:00:00Z",
		"moderated": "2022-02-02T00:00:00Z",
		"updated":   "2023-03-03T10:00:00Z",
	}
	got, ok := RecordDate(doc)
	if !ok || got.Year() != 2023 || got.Month() != time.March {
		t.Errorf("RecordDate() = %v, %v; expected 2023-03-03", got, ok)
	}

	delete(doc, "updated")
	got, _ = RecordDate(doc)
	if got.Year() != 2022 {
		t.Errorf("RecordDate() without updated = %v, expected 2022", got)
	}

	// A truthy but unparseable first field does not fall through.
	got, ok = RecordDate(Document{"updated": "not a date", "created": "2021-01-01"})
	if ok {
		t.Errorf("RecordDate() with bad updated = %v, expected no date", got)
	}

	if _, ok := RecordDate(Document{}); ok {
		t.Error("RecordDate() on empty document should report no date")
	}
}

func TestParseDateEpochFallback(t *testing.T) {
	t.Parallel()

	got, ok := ParseDate(true)
	if !ok || got.Year() != 1970 {
		t.Errorf("ParseDate(true) = %v, %v; expected 1970", got, ok)
	}

	got, ok = ParseDate(1.6725312e12)
	if !ok || got.Year() != 2023 {
		t.Errorf("ParseDate(ms) = %v, %v; expected 2023", got, ok)
	}

	got, ok = ParseDate(map[string]any{"_seconds": 1672531200.0, "_nanoseconds": 0.0})
	if !ok || got.Year() != 2023 {
		t.Errorf("ParseDate(firestore) = %v, %v; expected 2023", got, ok)
	}

	if _, ok := ParseDate("2023-13-45"); ok {
		t.Error("ParseDate() accepted an invalid date")
	}
}

func TestCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		doc    Document
		wantOK bool
	}{
		{"geopoint", Document{"location": map[string]any{"_latitude": 51.5, "_longitude": -0.1}}, true},
		{"plain", Document{"location": map[string]any{"latitude": "51.5", "longitude": "-0.1"}}, true},
		{"zero zero", Document{"location": map[string]any{"_latitude": 0.0, "_longitude": 0.0}}, false},
		{"zero lat only", Document{"location": map[string]any{"_latitude": 0.0, "_longitude": 12.0}}, true},
		{"missing", Document{}, false},
		{"not numeric", Document{"location": map[string]any{"_latitude": "north", "_longitude": 1.0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, ok := Coordinates(tt.doc); ok != tt.wantOK {
				t.Errorf("Coordinates(%v) ok = %v, expected %v", tt.doc, ok, tt.wantOK)
			}
		})
	}
}

func TestParseRecord(t *testing.T) {
	t.Parallel()

	r := ParseRecord("p1", Document{
		"pieces":    "12",
		"published": true,
		"updated":   "2023-05-04T12:00:00Z",
		"location":  map[string]any{"_latitude": 51.5, "_longitude": -0.1},
		"categories": []any{
			map[string]any{"brand": "Coke", "label": "can", "number": 3.0},
			map[string]any{"brand": " ", "label": "bottle"},
			"junk",
		},
		"missions": []any{"m1", map[string]any{"id": "m2"}, ""},
	})

	if r.ID != "p1" || r.Pieces != 12 || !r.Moderated {
		t.Errorf("ParseRecord() basic fields = %+v", r)
	}
	if !r.HasDate || r.Date.Day() != 4 {
		t.Errorf("ParseRecord() date = %v", r.Date)
	}
	if r.CoordinateKey() != "51.50,-0.10" {
		t.Errorf("CoordinateKey() = %q, expected 51.50,-0.10", r.CoordinateKey())
	}
	if len(r.Categories) != 3 {
		t.Fatalf("Categories length = %d, expected 3", len(r.Categories))
	}
	if r.Categories[0].Count() != 3 || r.Categories[1].Count() != 1 {
		t.Errorf("category counts = %v, %v", r.Categories[0].Count(), r.Categories[1].Count())
	}
	if r.Categories[1].Field("brand") != UndefinedBucket || r.Categories[1].Field("label") != "bottle" {
		t.Errorf("category fields = %q, %q", r.Categories[1].Field("brand"), r.Categories[1].Field("label"))
	}
	if len(r.MissionIDs) != 2 || r.MissionIDs[1] != "m2" {
		t.Errorf("MissionIDs = %v, expected [m1 m2]", r.MissionIDs)
	}
}

func TestParseRecordsOrder(t *testing.T) {
	t.Parallel()

	records := ParseRecords(map[string]Document{"b": {}, "a": {}, "c": {}})
	if len(records) != 3 || records[0].ID != "a" || records[2].ID != "c" {
		t.Errorf("ParseRecords() order = %v", records)
	}
}
