// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package geo canonicalizes country and constituency names so that records
geocoded through different upstream vocabularies group together.

# Overview

Upstream data arrives with country names in many shapes: English names,
abbreviations ("USA", "UK"), accented spellings, and names in the data
source's own locale ("Deutschland", "Espana"). A Normalizer maps all of
these to one canonical English name and, when derivable, an ISO 3166-1
alpha-2 code.

The Normalizer builds two reverse indexes once at construction:

  - lookup key -> canonical English name, covering English region names and
    the localized region names of a fixed list of locales
  - lookup key -> region code, covering English names, known alias
    spellings and a small set of overrides

Lookup keys are accent-stripped, lower-cased and punctuation-collapsed (see
LookupKey), so "Côte d’Ivoire", "cote divoire" and "COTE D IVOIRE" all meet
at the same key.

# Group Keys

CountryGroupKey prefers the region code ("cc:GB") and falls back to the
lower-cased canonical name ("nm:atlantis"). Two entries resolved by name and
by code therefore land in the same bucket.

# Sentinels

Unknown or empty input never fails; it yields UnknownCountry. Constituency
placeholders ("unknown", "n/a") normalize to the empty string.

# Thread Safety

A Normalizer is immutable after NewNormalizer returns and is safe for
concurrent use. Construct one per process and pass it to the components
that need it.
*/
package geo
