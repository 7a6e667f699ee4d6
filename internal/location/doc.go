// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package location resolves record coordinates to countries and constituencies
and keeps the results in a persisted dictionary.

# Resolution Stages

A Resolver tries, in order:

 1. the offline Table: exact "%.2f, %.2f" key, else the nearest row within
    NearestMaxDistance degrees (s2 cell index over the cell and its neighbors)
 2. the primary provider (Photon) at the coordinate
 3. a ring of eight nearby points, primary then secondary at each, while the
    country or constituency is still missing
 4. the secondary provider (Nominatim) at the coordinate, while the country
    is still unknown

Results are merged rather than replaced: see Resolver.Merge. Live stages are
skipped when the offline hit is complete or live lookups are disabled.

# Politeness

Every live call goes through one Queue: a single worker, a minimum interval
enforced with golang.org/x/time/rate, and a per-call deadline. Each provider
also sits behind a sony/gobreaker circuit breaker. Any failure becomes the
unknown place at this boundary.

# Dictionary

Dictionary maps "%.2f,%.2f" keys to normalized places. Prefill is the cheap
offline pass used before the first view; Enrich is the background pass that
resolves missing or partial entries one at a time, persisting after each and
notifying OnUpdate subscribers with a fresh Snapshot.
*/
package location
