// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/models"
)

// DefaultSaveEvery is the number of new lookups between progress saves.
const DefaultSaveEvery = 50

// Exporter resolves coordinate buckets and writes the table.
type Exporter struct {
	// Provider answers the country lookups, normally Photon.
	Provider location.Provider
	// Queue spaces the lookups. Nil runs them back to back.
	Queue *location.Queue
	// Output is the file written on progress and at the end.
	Output string
	// SaveEvery is the number of new lookups between progress saves.
	SaveEvery int

	now func() time.Time
}

// Run buckets photos, resolves the first limit buckets (all when limit is
// not positive) that have no "ok" row in the existing output, and writes
// the merged table.
func (e *Exporter) Run(ctx context.Context, photos map[string]models.Document, limit int) (Document, error) {
	log := logging.Ctx(ctx)
	saveEvery := e.SaveEvery
	if saveEvery <= 0 {
		saveEvery = DefaultSaveEvery
	}

	b := BuildBuckets(photos)
	work := b.Buckets
	if limit > 0 && limit < len(work) {
		work = work[:limit]
	}
	rows := LoadExisting(e.Output)

	log.Info().
		Int("photos", b.PhotosTotal).
		Int("unique_coordinates", len(b.Buckets)).
		Int("missing_coords", b.MissingCoords).
		Int("zero_zero_coords", b.ZeroZeroCoords).
		Int("existing_rows", len(rows)).
		Int("processing", len(work)).
		Msg("Exporting location resolutions")

	processed := 0
	for _, bucket := range work {
		if cached, ok := rows[bucket.Key]; ok && cached.Status == StatusOK {
			cached.Count = bucket.Count
			rows[bucket.Key] = cached
			continue
		}
		loc, err := e.lookup(ctx, bucket)
		if err != nil {
			// Keep what was resolved so a rerun resumes from here.
			if werr := Write(e.Output, e.document(b, rows)); werr != nil {
				log.Error().Err(werr).Msg("Failed to save progress")
			}
			return Document{}, err
		}
		rows[bucket.Key] = loc
		processed++

		if processed%saveEvery == 0 {
			if err := Write(e.Output, e.document(b, rows)); err != nil {
				return Document{}, err
			}
			log.Info().Int("lookups", processed).Msg("Saved progress")
		}
	}

	doc := e.document(b, rows)
	if err := Write(e.Output, doc); err != nil {
		return Document{}, err
	}
	log.Info().Int("lookups", processed).Str("output", e.Output).Msg("Wrote location resolution file")
	return doc, nil
}

// lookup resolves one bucket. Provider failures become row statuses; only
// cancellation is returned as an error.
func (e *Exporter) lookup(ctx context.Context, bucket Bucket) (Location, error) {
	var place geo.Place
	var callErr error
	call := func(ctx context.Context) {
		place, callErr = e.Provider.Reverse(ctx, bucket.Lat, bucket.Lon)
	}
	if e.Queue != nil {
		if err := e.Queue.Do(ctx, call); err != nil {
			return Location{}, err
		}
	} else {
		call(ctx)
	}
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}

	loc := Location{Key: bucket.Key, Lat: bucket.Lat, Lon: bucket.Lon, Count: bucket.Count}
	var statusErr *location.StatusError
	switch {
	case errors.As(callErr, &statusErr):
		loc.Status = StatusHTTPError
		loc.Detail = stringPtr(fmt.Sprintf("status_%d", statusErr.Code))
	case callErr != nil:
		loc.Status = StatusHTTPError
		loc.Detail = stringPtr("request_failed")
		logging.Ctx(ctx).Debug().Err(callErr).Str("key", bucket.Key).Msg("Lookup failed")
	case geo.IsUnknownCountry(place.Country):
		loc.Status = StatusNoCountry
	default:
		loc.Status = StatusOK
		loc.Country = stringPtr(place.Country)
	}
	return loc, nil
}

func (e *Exporter) document(b Buckets, rows map[string]Location) Document {
	now := time.Now
	if e.now != nil {
		now = e.now
	}
	return Document{
		GeneratedAt:              now().UTC().Format("2006-01-02T15:04:05.000Z"),
		PhotosTotal:              b.PhotosTotal,
		UniqueRoundedCoordinates: len(b.Buckets),
		MissingCoords:            b.MissingCoords,
		ZeroZeroCoords:           b.ZeroZeroCoords,
		Locations:                sortedLocations(rows),
	}
}

func stringPtr(s string) *string {
	return &s
}
