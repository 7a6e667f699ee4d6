// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig
//  2. Config File: optional config.yaml
//  3. Environment Variables: the names listed in envMappings
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Upstream   UpstreamConfig   `koanf:"upstream"`
	Cache      CacheConfig      `koanf:"cache"`
	Geocode    GeocodeConfig    `koanf:"geocode"`
	Store      StoreConfig      `koanf:"store"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Enrichment EnrichmentConfig `koanf:"enrichment"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig selects the document store behind /api/photos and friends.
type UpstreamConfig struct {
	// Kind is "mongo" or "file".
	Kind string `koanf:"kind" validate:"oneof=mongo file"`

	// File is the JSON export read by the file source.
	File string `koanf:"file"`

	MongoURI       string        `koanf:"mongo_uri"`
	MongoDatabase  string        `koanf:"mongo_database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
}

// CacheConfig sets the TTL of each upstream read.
type CacheConfig struct {
	PhotosTTL     time.Duration `koanf:"photos_ttl" validate:"gt=0"`
	MissionsTTL   time.Duration `koanf:"missions_ttl" validate:"gt=0"`
	WaterTestsTTL time.Duration `koanf:"water_tests_ttl" validate:"gt=0"`
	LocationTTL   time.Duration `koanf:"location_ttl" validate:"gt=0"`

	// MaxEntries bounds the per-coordinate location cache.
	MaxEntries int `koanf:"max_entries" validate:"gte=0"`
}

// GeocodeConfig configures the location resolver.
type GeocodeConfig struct {
	// Live enables Photon and Nominatim lookups. When false only the
	// resolution table is used.
	Live bool `koanf:"live"`

	PhotonURL    string `koanf:"photon_url"`
	NominatimURL string `koanf:"nominatim_url"`
	UserAgent    string `koanf:"user_agent"`

	// MinInterval is the minimum spacing between live requests.
	MinInterval time.Duration `koanf:"min_interval" validate:"gte=0"`

	// Timeout bounds each live request.
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// TablePath is a local path or http(s) URL of the resolution table.
	TablePath string `koanf:"table_path"`

	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio" validate:"gt=0,lte=1"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// StoreConfig selects the persistent store of the location dictionary.
type StoreConfig struct {
	// Type is "memory" or "badger".
	Type string `koanf:"type" validate:"oneof=memory badger"`

	// Path is the badger directory. Empty means an in-memory badger.
	Path string `koanf:"path"`
}

// DatasetConfig configures the dashboard client of a running server.
type DatasetConfig struct {
	URL         string        `koanf:"url"`
	Attempts    int           `koanf:"attempts" validate:"min=1,max=10"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`
	TimeoutStep time.Duration `koanf:"timeout_step" validate:"gte=0"`
	RetryDelay  time.Duration `koanf:"retry_delay" validate:"gte=0"`
}

// EnrichmentConfig configures the background enrichment service.
type EnrichmentConfig struct {
	Enabled bool `koanf:"enabled"`

	// Interval is the pause between enrichment passes.
	Interval time.Duration `koanf:"interval" validate:"gt=0"`
}

// SecurityConfig holds the HTTP edge settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	Caller     bool   `koanf:"caller"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
}
