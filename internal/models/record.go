// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package models

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/patrolmap/internal/geo"
)

// UndefinedBucket names the aggregation bucket for missing category values.
const UndefinedBucket = "undefined"

// Category is one brand/label entry of a record.
type Category struct {
	Brand  string  `json:"brand"`
	Label  string  `json:"label"`
	Number float64 `json:"number,omitempty"`
}

// Count returns the category weight: the explicit number when positive, else 1.
func (c Category) Count() float64 {
	if c.Number > 0 && !math.IsInf(c.Number, 0) {
		return c.Number
	}
	return 1
}

// Field returns the trimmed value of "brand" or "label", or UndefinedBucket.
func (c Category) Field(name string) string {
	var raw string
	switch name {
	case "brand":
		raw = c.Brand
	case "label":
		raw = c.Label
	}
	if v := strings.TrimSpace(raw); v != "" {
		return v
	}
	return UndefinedBucket
}

// Record is a litter photo report.
type Record struct {
	ID          string     `json:"id"`
	Pieces      float64    `json:"pieces"`
	Moderated   bool       `json:"moderated"`
	Date        time.Time  `json:"date,omitempty"`
	HasDate     bool       `json:"-"`
	Location    geo.Point  `json:"location,omitempty"`
	HasLocation bool       `json:"-"`
	Categories  []Category `json:"categories"`
	MissionIDs  []string   `json:"missions,omitempty"`

	Raw Document `json:"-"`
}

// CoordinateKey returns the dictionary key of the record location, or "".
func (r Record) CoordinateKey() string {
	if !r.HasLocation {
		return ""
	}
	return r.Location.Key()
}

// WithCategories returns a copy of r carrying only the given categories.
func (r Record) WithCategories(categories []Category) Record {
	out := r
	out.Categories = categories
	return out
}

// ParseRecord reads a raw photo document.
func ParseRecord(id string, doc Document) Record {
	r := Record{
		ID:         id,
		Pieces:     Pieces(doc),
		Moderated:  IsModerated(doc),
		Categories: parseCategories(doc["categories"]),
		MissionIDs: parseMissionRefs(doc["missions"]),
		Raw:        doc,
	}
	r.Date, r.HasDate = RecordDate(doc)
	r.Location, r.HasLocation = Coordinates(doc)
	return r
}

// ParseRecords reads a record map, ordered by id.
func ParseRecords(docs map[string]Document) []Record {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, ParseRecord(id, docs[id]))
	}
	return out
}

// Pieces returns the piece count of a document, clamped at zero.
func Pieces(doc Document) float64 {
	n, ok := ToNumber(doc["pieces"])
	if !ok || n < 0 {
		return 0
	}
	return n
}

// IsModerated prefers the publish flag (boolean or "true"/"false" string)
// and falls back to the truthiness of the legacy moderated field.
func IsModerated(doc Document) bool {
	switch v := doc["published"].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return Truthy(doc["moderated"])
}

// dateFields is the timestamp precedence: the first truthy field wins even
// when it fails to parse.
var dateFields = []string{"updated", "moderated", "created"}

// RecordDate resolves the record timestamp.
func RecordDate(doc Document) (time.Time, bool) {
	for _, field := range dateFields {
		if v := doc[field]; Truthy(v) {
			return ParseDate(v)
		}
	}
	return time.Time{}, false
}

func parseCategories(v any) []Category {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Category, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, Category{})
			continue
		}
		c := Category{Brand: String(m["brand"]), Label: String(m["label"])}
		if n, ok := ToNumber(m["number"]); ok {
			c.Number = n
		}
		out = append(out, c)
	}
	return out
}

func parseMissionRefs(v any) []string {
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			var id string
			if m, ok := item.(map[string]any); ok {
				id = String(m["id"])
			} else {
				id = String(item)
			}
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
		return out
	case []string:
		return x
	}
	return nil
}
