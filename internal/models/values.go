// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/patrolmap/internal/geo"
)

// Document is an opaque upstream document.
type Document = map[string]any

// ToNumber coerces a JSON or BSON scalar into a float64. Strings are parsed
// after trimming. The second result is false for anything that is not a
// finite number.
func ToNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int32:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case uint64:
		f = float64(x)
	case bool:
		if x {
			f = 1
		}
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case interface{ Float64() (float64, error) }:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Truthy mirrors loose truthiness: empty strings, zero numbers, false and nil
// are false, everything else is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case time.Time:
		return true
	}
	if f, ok := ToNumber(v); ok {
		return f != 0
	}
	switch v.(type) {
	case float64, float32:
		return false // NaN
	}
	return true
}

// String renders a scalar as text. nil becomes "".
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func nested(doc Document, key string) Document {
	if doc == nil {
		return nil
	}
	m, _ := doc[key].(map[string]any)
	return m
}

// coordinateFields lists the latitude/longitude key pairs tried in order.
var coordinateFields = [][2]string{
	{"_latitude", "_longitude"},
	{"latitude", "longitude"},
}

// Coordinates extracts the location point of a document. The second result
// is false for a missing, non-finite or (0,0) location.
func Coordinates(doc Document) (geo.Point, bool) {
	loc := nested(doc, "location")
	if loc == nil {
		return geo.Point{}, false
	}
	for _, pair := range coordinateFields {
		latRaw, okLat := loc[pair[0]]
		lonRaw, okLon := loc[pair[1]]
		if !okLat || !okLon {
			continue
		}
		lat, ok1 := ToNumber(latRaw)
		lon, ok2 := ToNumber(lonRaw)
		p := geo.Point{Lat: lat, Lon: lon}
		if !ok1 || !ok2 || !p.Valid() {
			return geo.Point{}, false
		}
		return p, true
	}
	return geo.Point{}, false
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate decodes a timestamp value. Numbers are Unix milliseconds, a
// boolean true is one millisecond past the epoch, and maps carrying
// "_seconds" are serialized Firestore timestamps.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.UTC(), !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	case bool:
		if x {
			return time.UnixMilli(1).UTC(), true
		}
		return time.Time{}, false
	case map[string]any:
		secs, ok := ToNumber(x["_seconds"])
		if !ok {
			return time.Time{}, false
		}
		nanos, _ := ToNumber(x["_nanoseconds"])
		return time.Unix(int64(secs), int64(nanos)).UTC(), true
	}
	if ms, ok := ToNumber(v); ok {
		return time.UnixMilli(int64(ms)).UTC(), true
	}
	return time.Time{}, false
}
