// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package aggregate

import "github.com/tomtom215/patrolmap/internal/models"

// Summary holds the headline counts of a record set.
type Summary struct {
	Records           int     `json:"records"`
	Pieces            float64 `json:"pieces"`
	Moderated         int     `json:"moderated"`
	ModeratedPieces   float64 `json:"moderatedPieces"`
	Unmoderated       int     `json:"unmoderated"`
	UnmoderatedPieces float64 `json:"unmoderatedPieces"`
}

// Summarize counts records and sums pieces in one pass. Moderated and
// unmoderated piece sums always add up to Pieces.
func Summarize(records []models.Record) Summary {
	var s Summary
	for i := range records {
		r := &records[i]
		pieces := r.Pieces
		if pieces < 0 {
			pieces = 0
		}
		s.Records++
		s.Pieces += pieces
		if r.Moderated {
			s.Moderated++
			s.ModeratedPieces += pieces
		} else {
			s.Unmoderated++
			s.UnmoderatedPieces += pieces
		}
	}
	return s
}
