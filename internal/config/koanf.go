// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/patrolmap/internal/location"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/patrolmap/config.yaml",
	"/etc/patrolmap/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8787,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Upstream: UpstreamConfig{
			Kind:           "file",
			File:           "data/export.json",
			MongoDatabase:  "planetpatrol",
			ConnectTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			PhotosTTL:     5 * time.Minute,
			MissionsTTL:   5 * time.Minute,
			WaterTestsTTL: 5 * time.Minute,
			LocationTTL:   24 * time.Hour,
			MaxEntries:    10000,
		},
		Geocode: GeocodeConfig{
			Live:                true,
			PhotonURL:           location.DefaultPhotonURL,
			NominatimURL:        location.DefaultNominatimURL,
			UserAgent:           location.DefaultUserAgent,
			MinInterval:         time.Second,
			Timeout:             location.DefaultCallTimeout,
			TablePath:           "exports/location-resolutions.json",
			BreakerFailureRatio: 0.6,
			BreakerTimeout:      time.Minute,
		},
		Store: StoreConfig{
			Type: "badger",
			Path: "data/dictionary",
		},
		Dataset: DatasetConfig{
			URL:         "http://localhost:8787",
			Attempts:    3,
			Timeout:     12 * time.Second,
			TimeoutStep: 6 * time.Second,
			RetryDelay:  time.Second,
		},
		Enrichment: EnrichmentConfig{
			Enabled:  true,
			Interval: 10 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 300,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// LoadDotEnv loads a .env file into the process environment. A missing
// file is not an error; variables already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration (defaults, file, env) and validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"port":             "server.port",
	"http_port":        "server.port",
	"http_host":        "server.host",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"upstream_kind":         "upstream.kind",
	"upstream_file":         "upstream.file",
	"mongo_uri":             "upstream.mongo_uri",
	"mongo_database":        "upstream.mongo_database",
	"mongo_connect_timeout": "upstream.connect_timeout",
	"photos_cache_ttl":      "cache.photos_ttl",
	"missions_cache_ttl":    "cache.missions_ttl",
	"water_tests_cache_ttl": "cache.water_tests_ttl",
	"location_cache_ttl":    "cache.location_ttl",
	"cache_max_entries":     "cache.max_entries",
	"live_geocoding":        "geocode.live",
	"photon_url":            "geocode.photon_url",
	"nominatim_url":         "geocode.nominatim_url",
	"geocode_user_agent":    "geocode.user_agent",
	"geocode_min_interval":  "geocode.min_interval",
	"geocode_timeout":       "geocode.timeout",
	"resolution_table_path": "geocode.table_path",
	"breaker_failure_ratio": "geocode.breaker_failure_ratio",
	"breaker_timeout":       "geocode.breaker_timeout",
	"store_type":            "store.type",
	"store_path":            "store.path",
	"dataset_url":           "dataset.url",
	"dataset_attempts":      "dataset.attempts",
	"dataset_timeout":       "dataset.timeout",
	"dataset_timeout_step":  "dataset.timeout_step",
	"dataset_retry_delay":   "dataset.retry_delay",
	"enrichment_enabled":    "enrichment.enabled",
	"enrichment_interval":   "enrichment.interval",
	"cors_origins":          "security.cors_origins",
	"rate_limit_requests":   "security.rate_limit_requests",
	"rate_limit_window":     "security.rate_limit_window",
	"disable_rate_limit":    "security.rate_limit_disabled",
	"log_level":             "logging.level",
	"log_format":            "logging.format",
	"log_caller":            "logging.caller",
	"log_file":              "logging.file",
	"log_file_max_size_mb":  "logging.max_size_mb",
	"log_file_max_backups":  "logging.max_backups",
	"log_file_max_age_days": "logging.max_age_days",
	"log_file_compress":     "logging.compress",
}

// envTransformFunc maps an environment variable name to its koanf path,
// or "" to skip it.
//
//	MONGO_URI -> upstream.mongo_uri
//	PHOTOS_CACHE_TTL -> cache.photos_ttl
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
