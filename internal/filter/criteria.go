// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package filter

import (
	"math"
	"strings"

	"github.com/tomtom215/patrolmap/internal/validation"
)

// Status values accepted by Criteria.Status.
const (
	StatusAll         = "all"
	StatusModerated   = "moderated"
	StatusUnmoderated = "unmoderated"
)

// Criteria is the set of active dashboard filters. Every field is optional;
// the zero value matches every record. Mission and location filters are
// exclusive.
type Criteria struct {
	Status       string  `json:"status" validate:"omitempty,oneof=all moderated unmoderated"`
	MinPieces    float64 `json:"minPieces" validate:"gte=0"`
	Year         string  `json:"year" validate:"omitempty,max=8"`
	Month        string  `json:"month" validate:"omitempty,max=4"`
	Day          string  `json:"day" validate:"omitempty,max=4"`
	Country      string  `json:"country" validate:"omitempty,countrykey"`
	Constituency string  `json:"constituency" validate:"omitempty,constituencykey"`
	Mission      string  `json:"mission" validate:"omitempty,max=256,excluded_with=Country Constituency"`
	Search       string  `json:"q" validate:"omitempty,max=200"`
}

// Validate checks the criteria with the shared validator.
func (c Criteria) Validate() error {
	if verr := validation.ValidateStruct(&c); verr != nil {
		return verr
	}
	return nil
}

// Normalized trims every text field and clamps MinPieces at zero.
func (c Criteria) Normalized() Criteria {
	c.Status = strings.ToLower(strings.TrimSpace(c.Status))
	if c.MinPieces < 0 || math.IsNaN(c.MinPieces) {
		c.MinPieces = 0
	}
	c.Year = strings.TrimSpace(c.Year)
	c.Month = strings.TrimSpace(c.Month)
	c.Day = strings.TrimSpace(c.Day)
	c.Country = strings.TrimSpace(c.Country)
	c.Constituency = strings.TrimSpace(c.Constituency)
	c.Mission = strings.TrimSpace(c.Mission)
	c.Search = strings.ToLower(strings.TrimSpace(c.Search))
	return c
}

// SelectMission sets the mission filter. Mission and location filters are
// exclusive, so the country and constituency are cleared.
func (c Criteria) SelectMission(groupKey string) Criteria {
	c.Mission = groupKey
	if groupKey != "" {
		c.Country = ""
		c.Constituency = ""
	}
	return c
}

// SelectCountry sets the country filter, clearing the constituency (it
// belongs to the previous country) and the mission.
func (c Criteria) SelectCountry(countryKey string) Criteria {
	c.Country = countryKey
	c.Constituency = ""
	if countryKey != "" {
		c.Mission = ""
	}
	return c
}

// HasDate reports whether any date filter is active.
func (c Criteria) HasDate() bool {
	return c.Year != "" || c.Month != "" || c.Day != ""
}
