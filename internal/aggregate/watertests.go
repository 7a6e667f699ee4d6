// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/models"
)

const (
	// MaxWaterTestRows caps the rendered water-test table.
	MaxWaterTestRows = 200

	maxCellLength = 180
)

// WaterTestRow is one formatted water-quality result.
type WaterTestRow struct {
	ID            string `json:"id"`
	DateTime      string `json:"dateTime"`
	Waterway      string `json:"waterway"`
	Result        string `json:"result"`
	Units         string `json:"units,omitempty"`
	Location      string `json:"location,omitempty"`
	DoubleChecked *bool  `json:"doubleChecked,omitempty"`
}

// WaterTestTable is the formatted result table of one test type.
type WaterTestTable struct {
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	ShowUnits bool           `json:"showUnits"`
	Total     int            `json:"total"`
	Rows      []WaterTestRow `json:"rows"`
}

// WaterTestRows formats tests of type t, newest first, capped at
// MaxWaterTestRows. Coliform rows carry a "<constituency>, <country>"
// location resolved through snap.
func WaterTestRows(t models.WaterTestType, tests []models.WaterTest, snap *location.Snapshot) WaterTestTable {
	sorted := models.SortWaterTests(tests)
	table := WaterTestTable{
		Type:      t.Key,
		Label:     t.Label,
		ShowUnits: t.ShowUnits(),
		Total:     len(sorted),
		Rows:      make([]WaterTestRow, 0, min(len(sorted), MaxWaterTestRows)),
	}
	for _, w := range truncate(sorted, MaxWaterTestRows) {
		value, units, _ := t.PrimaryResult(w.Raw)
		row := WaterTestRow{
			ID:       w.ID,
			DateTime: formatTimestamp(w.DateTime),
			Waterway: formatCell(w.Waterway),
			Result:   formatResult(t.Key, value),
		}
		if table.ShowUnits {
			row.Units = formatCell(units)
		}
		if dc, ok := w.DoubleChecked.(bool); ok {
			row.DoubleChecked = &dc
		}
		if t.Key == "coliforms" {
			row.Location = waterTestLocation(w, snap)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func waterTestLocation(w models.WaterTest, snap *location.Snapshot) string {
	country := models.UndefinedBucket
	constituency := ""
	if snap != nil && w.HasLocation {
		info := snap.PlaceInfo(w.Location.Key())
		if info.Known() {
			country = info.Country
			constituency = info.Constituency
		}
	}
	if constituency != "" {
		return constituency + ", " + country
	}
	return country
}

// formatTimestamp renders Unix milliseconds in UTC. Non-positive values
// render empty.
func formatTimestamp(ms float64) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}

func formatResult(typeKey string, v any) string {
	if b, ok := v.(bool); ok && typeKey == "coliforms" {
		if b {
			return "Positive"
		}
		return "Negative"
	}
	return formatCell(v)
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	if n, ok := models.ToNumber(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return truncateText(models.String(v))
	}
	return truncateText(string(data))
}

func truncateText(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellLength {
		return s
	}
	return string(runes[:maxCellLength-1]) + "…"
}
