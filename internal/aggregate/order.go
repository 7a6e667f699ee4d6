// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Total is one leaderboard row.
type Total struct {
	Name  string  `json:"name"`
	Count float64 `json:"count"`
}

// newCollator returns a fresh collator. Collators keep internal buffers and
// must not be shared between goroutines.
func newCollator() *collate.Collator {
	return collate.New(language.English)
}

// sortTotals orders rows by descending count, then by name.
func sortTotals(rows []Total) {
	c := newCollator()
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return c.CompareString(rows[i].Name, rows[j].Name) < 0
	})
}

func truncate[T any](rows []T, limit int) []T {
	if limit < 0 {
		limit = 0
	}
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
