// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"strings"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/models"
)

// fieldPath addresses a value inside a decoded JSON payload. Elements are
// object keys (string) or array indexes (int).
type fieldPath []any

// find walks the path and returns the value, or nil when any step is missing.
func (p fieldPath) find(doc any) any {
	cur := doc
	for _, step := range p {
		switch s := step.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil
			}
			cur = m[s]
		case int:
			arr, ok := cur.([]any)
			if !ok || s < 0 || s >= len(arr) {
				return nil
			}
			cur = arr[s]
		default:
			return nil
		}
	}
	return cur
}

// text returns the trimmed string at the path.
func (p fieldPath) text(doc any) string {
	v := p.find(doc)
	if v == nil {
		return ""
	}
	if _, isObject := v.(map[string]any); isObject {
		return ""
	}
	if _, isArray := v.([]any); isArray {
		return ""
	}
	return strings.TrimSpace(models.String(v))
}

// textExtractor is an ordered list of paths; the first non-empty value wins.
type textExtractor []fieldPath

func (e textExtractor) extract(doc any) string {
	for _, p := range e {
		if v := p.text(doc); v != "" {
			return v
		}
	}
	return ""
}

// constituencyStrategy is one candidate source of a constituency name.
type constituencyStrategy struct {
	path  fieldPath
	level geo.Level
}

// constituencyExtractor tries strategies in order and returns the first
// value that survives normalization against the resolved country.
type constituencyExtractor []constituencyStrategy

func (e constituencyExtractor) extract(doc any, country string) (string, geo.Level) {
	for _, s := range e {
		if v := geo.NormalizeConstituency(s.path.text(doc), country); v != "" {
			return v, s.level
		}
	}
	return "", geo.LevelNone
}

// placeExtractor turns a provider payload into a normalized place.
type placeExtractor struct {
	country      textExtractor
	countryCode  textExtractor
	locality     textExtractor
	constituency constituencyExtractor
}

func (e placeExtractor) extract(n *geo.Normalizer, doc any) geo.Place {
	country := n.CountryName(e.country.extract(doc))
	if geo.IsUnknownCountry(country) {
		return geo.UnknownPlace()
	}
	label := geo.FormatLabel(e.locality.extract(doc), country)
	constituency, level := e.constituency.extract(doc, country)
	return n.Place(geo.Place{
		Label:        label,
		Country:      country,
		CountryCode:  e.countryCode.extract(doc),
		Constituency: constituency,
		Level:        level,
	})
}

func prefixed(prefix fieldPath, keys ...string) textExtractor {
	out := make(textExtractor, 0, len(keys))
	for _, k := range keys {
		p := make(fieldPath, 0, len(prefix)+1)
		p = append(p, prefix...)
		out = append(out, append(p, k))
	}
	return out
}

func adminLevels(prefix fieldPath) constituencyExtractor {
	at := func(key string) fieldPath {
		p := make(fieldPath, 0, len(prefix)+1)
		p = append(p, prefix...)
		return append(p, key)
	}
	return constituencyExtractor{
		{path: at("county"), level: geo.LevelCounty},
		{path: at("state_district"), level: geo.LevelDistrict},
		{path: at("state"), level: geo.LevelRegion},
	}
}

var (
	photonProperties = fieldPath{"features", 0, "properties"}

	photonExtractor = placeExtractor{
		country:      prefixed(photonProperties, "country"),
		countryCode:  prefixed(photonProperties, "countrycode"),
		locality:     prefixed(photonProperties, "city", "name", "county", "state"),
		constituency: adminLevels(photonProperties),
	}

	nominatimAddress = fieldPath{"address"}

	nominatimExtractor = placeExtractor{
		country:      prefixed(nominatimAddress, "country"),
		countryCode:  prefixed(nominatimAddress, "country_code"),
		locality:     prefixed(nominatimAddress, "city", "town", "village", "county", "state"),
		constituency: adminLevels(nominatimAddress),
	}
)
