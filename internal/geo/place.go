// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package geo

import (
	"strings"
)

// Level ranks how specific a constituency is. Higher is more specific.
type Level int

const (
	LevelNone Level = iota
	LevelUnspecified
	LevelRegion   // state
	LevelDistrict // state_district
	LevelCounty   // county
)

// Place is a resolved location: the value type of the location dictionary.
type Place struct {
	Label        string `json:"label"`
	Country      string `json:"country"`
	CountryCode  string `json:"countryCode"`
	Constituency string `json:"constituency,omitempty"`
	Level        Level  `json:"level,omitempty"`
}

// UnknownPlace returns the sentinel place.
func UnknownPlace() Place {
	return Place{Label: UnknownLocation, Country: UnknownCountry}
}

// Known reports whether the place has a resolved country.
func (p Place) Known() bool {
	return !IsUnknownCountry(p.Country)
}

// HasConstituency reports whether the place carries a constituency.
func (p Place) HasConstituency() bool {
	return p.Constituency != ""
}

// Complete reports whether both country and constituency are resolved.
func (p Place) Complete() bool {
	return p.Known() && p.HasConstituency()
}

// Place normalizes every field of p. A missing country is parsed from the
// label, a missing code is derived from the country name.
func (n *Normalizer) Place(p Place) Place {
	label := strings.TrimSpace(p.Label)
	if label == "" {
		label = UnknownLocation
	}
	rawCountry := p.Country
	if strings.TrimSpace(rawCountry) == "" {
		rawCountry = ParseCountryFromLabel(label)
	}
	country := n.CountryName(rawCountry)

	code := NormalizeCountryCode(p.CountryCode)
	if code == "" {
		code = n.CodeFromName(country)
	}
	if IsUnknownCountry(country) {
		code = ""
	}

	constituency := NormalizeConstituency(p.Constituency, country)
	level := p.Level
	switch {
	case constituency == "":
		level = LevelNone
	case level == LevelNone:
		level = LevelUnspecified
	}

	return Place{
		Label:        label,
		Country:      country,
		CountryCode:  code,
		Constituency: constituency,
		Level:        level,
	}
}

// PlaceFromLabel normalizes a bare "City, Country" label.
func (n *Normalizer) PlaceFromLabel(label string) Place {
	return n.Place(Place{Label: label})
}

// GroupKey returns the country group key of a normalized place.
func (n *Normalizer) GroupKey(p Place) string {
	return n.CountryGroupKey(p.Country, p.CountryCode)
}
