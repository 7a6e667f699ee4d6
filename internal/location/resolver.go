// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"math"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
)

// nearbySteps are the ring radii, in degrees, probed around a coordinate
// that the direct lookups could not fully resolve.
var nearbySteps = []float64{0.75, 1.5}

// Options configures a Resolver.
type Options struct {
	Normalizer *geo.Normalizer
	Table      *Table

	// Primary and Secondary are the live reverse geocoders, usually Photon
	// then Nominatim. Either may be nil.
	Primary   Provider
	Secondary Provider

	// Queue serializes live calls. Nil runs them inline.
	Queue *Queue

	// Live enables the network stages. When false only the table is used.
	Live bool
}

// Resolver turns a coordinate into a place through the offline table, then
// the live providers, then a ring of nearby points. It never fails: every
// problem degrades to the unknown place.
type Resolver struct {
	n         *geo.Normalizer
	table     *Table
	primary   Provider
	secondary Provider
	queue     *Queue
	live      bool
}

// NewResolver creates a Resolver.
func NewResolver(opts Options) *Resolver {
	n := opts.Normalizer
	if n == nil {
		n = geo.NewNormalizer()
	}
	table := opts.Table
	if table == nil {
		table = EmptyTable()
	}
	return &Resolver{
		n:         n,
		table:     table,
		primary:   opts.Primary,
		secondary: opts.Secondary,
		queue:     opts.Queue,
		live:      opts.Live,
	}
}

// Live reports whether network lookups are enabled.
func (r *Resolver) Live() bool {
	return r.live
}

// Normalizer returns the normalizer shared with the dictionary.
func (r *Resolver) Normalizer() *geo.Normalizer {
	return r.n
}

// ResolveOffline consults only the lookup table. It never blocks.
func (r *Resolver) ResolveOffline(lat, lon float64) geo.Place {
	return r.table.Lookup(lat, lon)
}

// Resolve runs every stage needed for the coordinate and merges the partial
// results.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) geo.Place {
	place := r.table.Lookup(lat, lon)
	stage := "offline"
	defer func() {
		if !place.Known() {
			stage = "unresolved"
		}
		metrics.ResolutionsTotal.WithLabelValues(stage).Inc()
	}()

	if place.Complete() || !r.live {
		return place
	}

	if merged, changed := r.Merge(place, r.lookup(ctx, r.primary, lat, lon)); changed {
		place, stage = merged, "photon"
	}
	if !place.Complete() {
		if merged, changed := r.Merge(place, r.searchNearby(ctx, lat, lon)); changed {
			place, stage = merged, "ring"
		}
	}
	if !place.Known() {
		if merged, changed := r.Merge(place, r.lookup(ctx, r.secondary, lat, lon)); changed {
			place, stage = merged, "nominatim"
		}
	}
	return place
}

// Merge combines a base place with a candidate. A known country replaces an
// unknown one; when both name the same country the more specific
// constituency is kept (ties keep the base). A candidate naming a different
// country is ignored. changed reports whether base was modified.
func (r *Resolver) Merge(base, candidate geo.Place) (geo.Place, bool) {
	if !candidate.Known() {
		return base, false
	}
	if !base.Known() {
		return candidate, true
	}
	if !r.sameCountry(base, candidate) {
		return base, false
	}

	merged := base
	changed := false
	if merged.CountryCode == "" && candidate.CountryCode != "" {
		merged.CountryCode = candidate.CountryCode
		changed = true
	}
	if candidate.HasConstituency() && candidate.Level > base.Level {
		merged.Constituency = candidate.Constituency
		merged.Level = candidate.Level
		if base.Label == base.Country {
			merged.Label = candidate.Label
		}
		changed = true
	}
	return merged, changed
}

// sameCountry compares group keys. When only one side carries a code the
// other is keyed by name, so the canonical names are compared instead.
func (r *Resolver) sameCountry(a, b geo.Place) bool {
	if r.n.GroupKey(a) == r.n.GroupKey(b) {
		return true
	}
	if (a.CountryCode == "") == (b.CountryCode == "") {
		return false
	}
	return geo.LookupKey(r.n.CountryName(a.Country)) == geo.LookupKey(r.n.CountryName(b.Country))
}

// lookup performs one queued provider call. Failures are logged at debug
// level and become the unknown place.
func (r *Resolver) lookup(ctx context.Context, p Provider, lat, lon float64) geo.Place {
	if p == nil || ctx.Err() != nil {
		return geo.UnknownPlace()
	}
	place, err := runQueued(ctx, r.queue, func(callCtx context.Context) (geo.Place, error) {
		return p.Reverse(callCtx, lat, lon)
	})
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("provider", p.Name()).
			Float64("lat", lat).Float64("lon", lon).Msg("Reverse geocode failed")
		return geo.UnknownPlace()
	}
	return r.n.Place(place)
}

// searchNearby probes the ring points, primary then secondary at each, and
// returns the first place with a known country.
func (r *Resolver) searchNearby(ctx context.Context, lat, lon float64) geo.Place {
	for _, pt := range NearbyPoints(lat, lon) {
		for _, p := range []Provider{r.primary, r.secondary} {
			if ctx.Err() != nil {
				return geo.UnknownPlace()
			}
			if place := r.lookup(ctx, p, pt.Lat, pt.Lon); place.Known() {
				return place
			}
		}
	}
	return geo.UnknownPlace()
}

// NearbyPoints returns the four cardinal offsets for each ring radius, inner
// ring first. Points outside the valid latitude range are skipped.
func NearbyPoints(lat, lon float64) []geo.Point {
	out := make([]geo.Point, 0, 4*len(nearbySteps))
	for _, step := range nearbySteps {
		for _, p := range []geo.Point{
			{Lat: lat + step, Lon: lon},
			{Lat: lat - step, Lon: lon},
			{Lat: lat, Lon: lon + step},
			{Lat: lat, Lon: lon - step},
		} {
			if math.Abs(p.Lat) > 90 {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
