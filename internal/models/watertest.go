// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package models

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tomtom215/patrolmap/internal/geo"
)

// WaterTestType describes one kind of water-quality test and where its
// result lives in a submission.
type WaterTestType struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	ValueKey string `json:"valueKey"`
	UnitsKey string `json:"unitsKey,omitempty"`
}

// ShowUnits reports whether result rows for this type carry a units column.
// Coliform results are presence flags and carry a location column instead.
func (t WaterTestType) ShowUnits() bool {
	switch t.Key {
	case "temperature", "ph", "coliforms":
		return false
	}
	return true
}

// WaterTestTypes is the ordered registry of supported test types.
var WaterTestTypes = []WaterTestType{
	{Key: "coliforms", Label: "Coliforms", ValueKey: "coliforms"},
	{Key: "nitrate", Label: "Nitrate", ValueKey: "nitrateReading", UnitsKey: "nitrateUnits"},
	{Key: "nitrite", Label: "Nitrite", ValueKey: "nitriteReading", UnitsKey: "nitriteUnits"},
	{Key: "ph", Label: "pH", ValueKey: "ph"},
	{Key: "phosphate", Label: "Phosphate", ValueKey: "phosphateReading", UnitsKey: "phosphateUnits"},
	{Key: "temperature", Label: "Temperature", ValueKey: "temperature"},
}

// LookupWaterTestType finds a registered type by key.
func LookupWaterTestType(key string) (WaterTestType, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, t := range WaterTestTypes {
		if t.Key == k {
			return t, true
		}
	}
	return WaterTestType{}, false
}

// WaterTest is one water-quality submission.
type WaterTest struct {
	ID            string    `json:"id"`
	DateTime      float64   `json:"dateTime"`
	Waterway      string    `json:"waterwayName"`
	Location      geo.Point `json:"location,omitempty"`
	HasLocation   bool      `json:"-"`
	DoubleChecked any       `json:"doubleChecked,omitempty"`

	Raw Document `json:"-"`
}

// ParseWaterTest reads a raw water-test document.
func ParseWaterTest(id string, doc Document) WaterTest {
	w := WaterTest{
		ID:            id,
		Waterway:      String(doc["waterwayName"]),
		DoubleChecked: doc["doubleChecked"],
		Raw:           doc,
	}
	if dt, ok := ToNumber(doc["dateTime"]); ok {
		w.DateTime = dt
	} else if t, ok := ParseDate(doc["dateTime"]); ok {
		w.DateTime = float64(t.UnixMilli())
	}
	w.Location, w.HasLocation = Coordinates(doc)
	return w
}

// ParseWaterTests reads a water-test map, newest first with id descending as
// the tie-break.
func ParseWaterTests(docs map[string]Document) []WaterTest {
	out := make([]WaterTest, 0, len(docs))
	for id, doc := range docs {
		out = append(out, ParseWaterTest(id, doc))
	}
	return SortWaterTests(out)
}

// SortWaterTests returns a copy of tests ordered newest first, id descending
// on ties.
func SortWaterTests(tests []WaterTest) []WaterTest {
	out := make([]WaterTest, len(tests))
	copy(out, tests)
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateTime != out[j].DateTime {
			return out[i].DateTime > out[j].DateTime
		}
		return out[i].ID > out[j].ID
	})
	return out
}

var (
	readingSuffix = regexp.MustCompile(`(?i)reading$`)
	readingAny    = regexp.MustCompile(`(?i)reading`)
)

// PrimaryResult returns the result value and units of a submission. When the
// registered value key is absent it falls back to a key ending in "reading",
// then any key containing "reading", then the type key itself.
func (t WaterTestType) PrimaryResult(doc Document) (value, units any, ok bool) {
	if t.ValueKey != "" {
		if v, present := doc[t.ValueKey]; present {
			if t.UnitsKey != "" {
				units = doc[t.UnitsKey]
			}
			return v, units, true
		}
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, expr := range []*regexp.Regexp{readingSuffix, readingAny} {
		for _, k := range keys {
			if expr.MatchString(k) {
				return doc[k], nil, true
			}
		}
	}
	if v, present := doc[t.Key]; present && t.Key != "" {
		return v, nil, true
	}
	return nil, nil, false
}
