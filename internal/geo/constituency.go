// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package geo

import "strings"

var constituencyPlaceholders = map[string]struct{}{
	"unknown":          {},
	"unknown location": {},
	"unknown country":  {},
	"n/a":              {},
	"na":               {},
	"none":             {},
	"null":             {},
	"undefined":        {},
	"-":                {},
}

// NormalizeConstituency trims and collapses an administrative-area name.
// Placeholders and names that merely repeat the country become "".
func NormalizeConstituency(value, country string) string {
	c := collapseSpace(value)
	if c == "" {
		return ""
	}
	if _, ok := constituencyPlaceholders[strings.ToLower(c)]; ok {
		return ""
	}
	if country != "" && strings.EqualFold(c, strings.TrimSpace(country)) {
		return ""
	}
	if key := LookupKey(c); key != "" && key == LookupKey(country) {
		return ""
	}
	return c
}

// ConstituencyGroupKey scopes a constituency under its country group key.
// It returns "" when there is no constituency.
func ConstituencyGroupKey(countryKey, constituency string) string {
	c := collapseSpace(constituency)
	if c == "" {
		return ""
	}
	return countryKey + "|" + strings.ToLower(c)
}
