// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package models defines the typed views over upstream documents.

Upstream sources hand back opaque documents (map[string]any) whose shape has
drifted over the years. This package reads them once into typed values and
owns every field-precedence rule, so the filter and aggregation code never
has to sniff raw maps.

Key Components:

  - Record: a litter photo report (pieces, moderation, date, location,
    categories, mission references)
  - Category: one brand/label entry of a record
  - Mission: a collection campaign with a self-reported total
  - WaterTest: a water-quality test submission
  - WaterTestType: the known test types and their result fields

Field Rules:

  - A location of exactly (0,0) is treated as absent.
  - Pieces are numeric (numeric strings accepted), never negative, and 0 when
    missing.
  - Moderation prefers an explicit publish flag over the legacy moderated
    date.
  - The record date is the first non-empty of updated, moderated, created.
    A boolean true date decodes to the Unix epoch (the "epoch fallback").
*/
package models
