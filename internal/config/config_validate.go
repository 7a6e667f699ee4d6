// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/patrolmap/internal/validation"
)

// validLogLevels defines the allowed log levels.
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats.
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// Validate checks struct tags and the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}
	checks := []func() error{
		c.validateUpstream,
		c.validateGeocode,
		c.validateDataset,
		c.validateLogging,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateUpstream() error {
	switch c.Upstream.Kind {
	case "mongo":
		if c.Upstream.MongoURI == "" {
			return errors.New("MONGO_URI is required when UPSTREAM_KIND is mongo")
		}
		if !strings.HasPrefix(c.Upstream.MongoURI, "mongodb://") && !strings.HasPrefix(c.Upstream.MongoURI, "mongodb+srv://") {
			return errors.New("MONGO_URI must start with mongodb:// or mongodb+srv://")
		}
		if c.Upstream.MongoDatabase == "" {
			return errors.New("MONGO_DATABASE is required when UPSTREAM_KIND is mongo")
		}
	case "file":
		if c.Upstream.File == "" {
			return errors.New("UPSTREAM_FILE is required when UPSTREAM_KIND is file")
		}
	}
	return nil
}

func (c *Config) validateGeocode() error {
	if !c.Geocode.Live {
		return nil
	}
	if err := validateHTTPURL(c.Geocode.PhotonURL, "PHOTON_URL"); err != nil {
		return err
	}
	return validateHTTPURL(c.Geocode.NominatimURL, "NOMINATIM_URL")
}

func (c *Config) validateDataset() error {
	if c.Dataset.URL == "" {
		return nil
	}
	return validateHTTPURL(c.Dataset.URL, "DATASET_URL")
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// ShouldWarnAboutCORS reports a wildcard origin.
func (c *Config) ShouldWarnAboutCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// validateHTTPURL checks the scheme and host of a base URL. A path is
// allowed for services mounted under a prefix; a query is not.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
