// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package aggregate computes the dashboard figures over a filtered record set.

All functions are pure and single pass where possible. Leaderboards sort by
descending total and break ties by name using English collation, so "Éco"
sorts next to "Eco" rather than after "Z".

# Figures

  - Summarize: record counts and piece sums split by moderation.
  - TopCategoryTotals: brand or label leaderboard with an "undefined" bucket.
  - MissionLeaderboard: per mission group, the larger of the self-reported
    total and the pieces of referencing records.
  - TimeSeries: pieces and record counts per observed day, month or year.
  - CountryCounts, ConstituencyCounts, YearOptions: dropdown contents.
  - WaterTestRows: formatted water-quality results.
*/
package aggregate
