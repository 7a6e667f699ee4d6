// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang/geo/s2"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/models"
)

const (
	// NearestMaxDistance is the largest accepted nearest-neighbor distance in degrees.
	NearestMaxDistance = 0.35

	// tableCellLevel gives cells whose minimum width (about 0.84 degrees)
	// exceeds NearestMaxDistance, so a cell and its neighbors cover the radius.
	tableCellLevel = 6

	tableFetchTimeout = 6 * time.Second
)

// TableRow is one precomputed resolution.
type TableRow struct {
	Key   string
	Point geo.Point
	Place geo.Place
}

// Table is the offline resolution lookup table. It is read-only after
// construction and safe for concurrent use.
type Table struct {
	rows  []TableRow
	byKey map[string]int
	cells map[s2.CellID][]int
}

// tableDocument is the export file shape.
type tableDocument struct {
	Locations []map[string]any `json:"locations"`
}

// NewTable builds a table from raw export rows. Rows with an unknown country
// or non-finite coordinates are skipped. Later rows with a duplicate key win
// the exact match but every row stays a nearest-neighbor candidate.
func NewTable(n *geo.Normalizer, rows []map[string]any) *Table {
	t := &Table{
		byKey: make(map[string]int, len(rows)),
		cells: make(map[s2.CellID][]int),
	}
	for _, raw := range rows {
		row, ok := parseTableRow(n, raw)
		if !ok {
			continue
		}
		idx := len(t.rows)
		t.rows = append(t.rows, row)
		t.byKey[row.Key] = idx
		cell := cellOf(row.Point)
		t.cells[cell] = append(t.cells[cell], idx)
	}
	return t
}

// EmptyTable returns a table with no rows.
func EmptyTable() *Table {
	return &Table{byKey: map[string]int{}, cells: map[s2.CellID][]int{}}
}

func parseTableRow(n *geo.Normalizer, raw map[string]any) (TableRow, bool) {
	country := n.CountryName(models.String(raw["country"]))
	if geo.IsUnknownCountry(country) {
		return TableRow{}, false
	}
	lat, okLat := models.ToNumber(raw["lat"])
	lon, okLon := models.ToNumber(raw["lon"])
	if !okLat || !okLon {
		return TableRow{}, false
	}
	key := strings.TrimSpace(models.String(raw["key"]))
	if key == "" {
		key = geo.ResolutionKey(lat, lon)
	}
	place := n.Place(geo.Place{
		Label:        country,
		Country:      country,
		CountryCode:  models.String(raw["countryCode"]),
		Constituency: models.String(raw["constituency"]),
	})
	return TableRow{Key: key, Point: geo.Point{Lat: lat, Lon: lon}, Place: place}, true
}

// Len returns the number of usable rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Lookup returns the exact-key row for the coordinate, otherwise the nearest
// row within NearestMaxDistance, otherwise the unknown place.
func (t *Table) Lookup(lat, lon float64) geo.Place {
	if t.Len() == 0 {
		return geo.UnknownPlace()
	}
	if idx, ok := t.byKey[geo.ResolutionKey(lat, lon)]; ok {
		return t.rows[idx].Place
	}
	if idx, ok := t.nearest(lat, lon); ok {
		return t.rows[idx].Place
	}
	return geo.UnknownPlace()
}

func (t *Table) nearest(lat, lon float64) (int, bool) {
	const maxDistanceSq = NearestMaxDistance * NearestMaxDistance
	best := -1
	bestDistance := maxDistanceSq
	for _, cell := range cellAndNeighbors(cellOf(geo.Point{Lat: lat, Lon: lon})) {
		for _, idx := range t.cells[cell] {
			p := t.rows[idx].Point
			d := geo.DistanceSquared(lat, lon, p.Lat, p.Lon)
			if d > bestDistance {
				continue
			}
			if d < bestDistance || best < 0 || idx < best {
				best = idx
				bestDistance = d
			}
		}
	}
	return best, best >= 0
}

func cellOf(p geo.Point) s2.CellID {
	return s2.CellIDFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lon)).Parent(tableCellLevel)
}

// cellAndNeighbors returns the cell, its edge neighbors and its corner neighbors.
func cellAndNeighbors(cell s2.CellID) []s2.CellID {
	cells := make([]s2.CellID, 0, 9)
	cells = append(cells, cell)
	edges := cell.EdgeNeighbors()
	cells = append(cells, edges[:]...)

	seen := make(map[s2.CellID]bool, 9)
	for _, c := range cells {
		seen[c] = true
	}
	for _, edge := range edges {
		for _, corner := range edge.EdgeNeighbors() {
			if !seen[corner] {
				cells = append(cells, corner)
				seen[corner] = true
			}
		}
	}
	return cells
}

// LoadTable reads the resolution export from a file path or an http(s) URL.
func LoadTable(ctx context.Context, n *geo.Normalizer, source string, client *http.Client) (*Table, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return EmptyTable(), nil
	}

	var data []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetchTable(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution table %s: %w", source, err)
	}

	var doc tableDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode resolution table: %w", err)
	}
	return NewTable(n, doc.Locations), nil
}

func fetchTable(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	ctx, cancel := context.WithTimeout(ctx, tableFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Service: "resolution table", Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
