// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package export builds the location resolution table: every rounded record
// coordinate with its record count and the country Photon reports for it.
//
// The output is the table the location resolver loads offline. Runs resume
// from an existing output file, skipping coordinates already resolved.
package export

import (
	"math"
	"sort"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/models"
)

// Bucket is one rounded coordinate and the number of records in it. Lat and
// Lon are the first record's unrounded coordinates.
type Bucket struct {
	Key   string
	Lat   float64
	Lon   float64
	Count int
}

// Buckets is the bucketing of a record set.
type Buckets struct {
	Buckets        []Bucket
	PhotosTotal    int
	MissingCoords  int
	ZeroZeroCoords int
}

// BuildBuckets groups records by rounded coordinate, most records first and
// key order on ties. Records store coordinates as a serialized GeoPoint
// (location._latitude, location._longitude).
func BuildBuckets(photos map[string]models.Document) Buckets {
	out := Buckets{PhotosTotal: len(photos)}
	index := make(map[string]int)

	for _, doc := range photos {
		lat, lon, ok := geoPoint(doc)
		if !ok {
			out.MissingCoords++
			continue
		}
		if lat == 0 && lon == 0 {
			out.ZeroZeroCoords++
			continue
		}
		key := geo.ResolutionKey(lat, lon)
		if i, seen := index[key]; seen {
			out.Buckets[i].Count++
			continue
		}
		index[key] = len(out.Buckets)
		out.Buckets = append(out.Buckets, Bucket{Key: key, Lat: lat, Lon: lon, Count: 1})
	}

	sort.Slice(out.Buckets, func(i, j int) bool {
		a, b := out.Buckets[i], out.Buckets[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Key < b.Key
	})
	return out
}

func geoPoint(doc models.Document) (float64, float64, bool) {
	loc, _ := doc["location"].(map[string]any)
	if loc == nil {
		return 0, 0, false
	}
	lat, ok1 := models.ToNumber(loc["_latitude"])
	lon, ok2 := models.ToNumber(loc["_longitude"])
	if !ok1 || !ok2 || math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return 0, 0, false
	}
	return lat, lon, true
}
