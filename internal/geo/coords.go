// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package geo

import (
	"fmt"
	"math"
	"regexp"
)

// coordinateKeyPattern is the persisted dictionary key format. Entries stored
// under any other shape are dropped on load.
var coordinateKeyPattern = regexp.MustCompile(`^-?\d+\.\d{2},-?\d+\.\d{2}$`)

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether both components are finite and the point is not the
// (0,0) default-value artifact.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lon) || math.IsInf(p.Lon, 0) {
		return false
	}
	return !(p.Lat == 0 && p.Lon == 0)
}

// Key returns the dictionary key of the point.
func (p Point) Key() string {
	return CoordinateKey(p.Lat, p.Lon)
}

// CoordinateKey rounds to two decimals (cells of roughly 1.1 km).
func CoordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", lat, lon)
}

// ResolutionKey is the key format of the precomputed resolution table.
func ResolutionKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f, %.2f", lat, lon)
}

// ValidCoordinateKey reports whether key matches the current dictionary key format.
func ValidCoordinateKey(key string) bool {
	return coordinateKeyPattern.MatchString(key)
}

// DistanceSquared is the squared euclidean distance in degrees.
func DistanceSquared(aLat, aLon, bLat, bLon float64) float64 {
	dLat := aLat - bLat
	dLon := aLon - bLon
	return dLat*dLat + dLon*dLon
}
