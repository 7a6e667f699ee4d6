// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import "github.com/tomtom215/patrolmap/internal/models"

// Category fields that can be aggregated.
const (
	FieldBrand = "brand"
	FieldLabel = "label"
)

// DefaultCategoryLimit is the leaderboard length used by the dashboard.
const DefaultCategoryLimit = 10

// TopCategoryTotals ranks the values of a category field. A record with no
// categories counts once toward the "undefined" bucket; otherwise each
// category adds its weight to the bucket of its field value.
func TopCategoryTotals(records []models.Record, field string, limit int) []Total {
	totals := make(map[string]float64)
	order := make([]string, 0)
	add := func(name string, v float64) {
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] += v
	}

	for i := range records {
		cats := records[i].Categories
		if len(cats) == 0 {
			add(models.UndefinedBucket, 1)
			continue
		}
		for _, c := range cats {
			add(c.Field(field), c.Count())
		}
	}
	return truncate(collectTotals(order, totals), limit)
}

// SummarizeCategoryTotals ranks the field values within a single record.
func SummarizeCategoryTotals(r models.Record, field string) []Total {
	totals := make(map[string]float64)
	order := make([]string, 0, len(r.Categories))
	for _, c := range r.Categories {
		name := c.Field(field)
		if _, ok := totals[name]; !ok {
			order = append(order, name)
		}
		totals[name] += c.Count()
	}
	return collectTotals(order, totals)
}

func collectTotals(order []string, totals map[string]float64) []Total {
	rows := make([]Total, 0, len(order))
	for _, name := range order {
		rows = append(rows, Total{Name: name, Count: totals[name]})
	}
	sortTotals(rows)
	return rows
}
