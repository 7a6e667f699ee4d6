// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
)

// Lookup statuses.
const (
	StatusOK        = "ok"
	StatusNoCountry = "no_country"
	StatusHTTPError = "http_error"
)

// Location is one output row.
type Location struct {
	Key     string  `json:"key"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Count   int     `json:"count"`
	Country *string `json:"country"`
	Status  string  `json:"status"`
	Detail  *string `json:"detail"`
}

// Document is the output file.
type Document struct {
	GeneratedAt              string     `json:"generatedAt"`
	PhotosTotal              int        `json:"photosTotal"`
	UniqueRoundedCoordinates int        `json:"uniqueRoundedCoordinates"`
	MissingCoords            int        `json:"missingCoords"`
	ZeroZeroCoords           int        `json:"zeroZeroCoords"`
	Locations                []Location `json:"locations"`
}

// LoadExisting reads the rows of a previous output keyed by key. A missing
// or unreadable file yields an empty map.
func LoadExisting(path string) map[string]Location {
	out := make(map[string]Location)
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	var doc struct {
		Locations []Location `json:"locations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return out
	}
	for _, loc := range doc.Locations {
		if loc.Key != "" {
			out[loc.Key] = loc
		}
	}
	return out
}

// sortedLocations orders rows by count descending, then key.
func sortedLocations(rows map[string]Location) []Location {
	out := make([]Location, 0, len(rows))
	for _, loc := range rows {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Write stores doc as indented JSON, creating parent directories. The file
// is replaced atomically.
func Write(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace output: %w", err)
	}
	return nil
}
