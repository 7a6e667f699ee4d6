// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package main

import (
	"net/http"

	"github.com/tomtom215/patrolmap/internal/config"
	"github.com/tomtom215/patrolmap/internal/location"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/upstream"
)

func loggingConfig(cfg config.LoggingConfig) logging.Config {
	return logging.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		Caller:     cfg.Caller,
		Timestamp:  true,
		File:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAgeDays: cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

func upstreamConfig(cfg config.UpstreamConfig) upstream.Config {
	return upstream.Config{
		Kind: upstream.Kind(cfg.Kind),
		File: cfg.File,
		Mongo: upstream.MongoConfig{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.ConnectTimeout,
		},
	}
}

func locationSetup(cfg config.GeocodeConfig) location.Setup {
	breaker := location.DefaultBreakerSettings()
	if cfg.BreakerFailureRatio > 0 {
		breaker.FailureRatio = cfg.BreakerFailureRatio
	}
	if cfg.BreakerTimeout > 0 {
		breaker.Timeout = cfg.BreakerTimeout
	}
	return location.Setup{
		TableSource:  cfg.TablePath,
		Live:         cfg.Live,
		PhotonURL:    cfg.PhotonURL,
		NominatimURL: cfg.NominatimURL,
		UserAgent:    cfg.UserAgent,
		MinInterval:  cfg.MinInterval,
		CallTimeout:  cfg.Timeout,
		Breaker:      breaker,
		Client:       &http.Client{Timeout: cfg.Timeout},
	}
}
