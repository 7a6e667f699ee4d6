// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

/*
Package config loads the server and CLI configuration.

# Configuration Sources

Values are layered with koanf v2, later layers overriding earlier ones:
  - Built-in defaults (defaultConfig, through the structs provider)
  - An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/patrolmap/config.yaml
  - Environment variables listed in envMappings

The cmd entry points call LoadDotEnv first so a local .env file feeds the
environment layer.

# Environment Variables

Server:
  - PORT / HTTP_PORT: listen port (default: 8787)
  - HTTP_HOST: bind address (default: 0.0.0.0)

Upstream:
  - UPSTREAM_KIND: mongo or file (default: file)
  - UPSTREAM_FILE: JSON export for the file source
  - MONGO_URI, MONGO_DATABASE: MongoDB source
  - PHOTOS_CACHE_TTL, MISSIONS_CACHE_TTL, WATER_TESTS_CACHE_TTL: read cache TTLs (default: 5m)

Geocoding:
  - LIVE_GEOCODING: enable Photon and Nominatim (default: true)
  - GEOCODE_MIN_INTERVAL: spacing between live requests (default: 1s)
  - GEOCODE_TIMEOUT: per-request timeout (default: 6s)
  - RESOLUTION_TABLE_PATH: path or URL of the precomputed table
  - STORE_TYPE, STORE_PATH: location dictionary store (default: badger in data/dictionary)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_FILE: rotated log file, written in addition to stderr

Durations use Go syntax ("90s", "5m").

# Validation

Load validates struct tags with the shared validator, then checks the rules
that span fields (a mongo upstream needs a URI and database, live
geocoding needs http(s) provider URLs).

Example:

	if err := config.LoadDotEnv(); err != nil {
	    logging.Warn().Err(err).Msg("Ignoring .env file")
	}
	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
