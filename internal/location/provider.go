// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/metrics"
)

// ErrProviderStatus is returned when a geocoding service answers with a non-2xx status.
var ErrProviderStatus = errors.New("unexpected status")

// StatusError carries the status code of a non-2xx answer. It matches
// ErrProviderStatus.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %v %d", e.Service, ErrProviderStatus, e.Code)
}

// Is reports ErrProviderStatus.
func (e *StatusError) Is(target error) bool {
	return target == ErrProviderStatus
}

const (
	DefaultPhotonURL    = "https://photon.komoot.io"
	DefaultNominatimURL = "https://nominatim.openstreetmap.org"
	DefaultUserAgent    = "patrolmap/1.0 (+https://github.com/tomtom215/patrolmap)"
)

// Provider reverse-geocodes a single coordinate. A payload without a
// country yields the unknown place and a nil error.
type Provider interface {
	Name() string
	Reverse(ctx context.Context, lat, lon float64) (geo.Place, error)
}

// httpProvider is the shared GET-and-decode path of the reverse geocoders.
type httpProvider struct {
	name      string
	client    *http.Client
	baseURL   string
	userAgent string
	n         *geo.Normalizer
	extractor placeExtractor
	query     func(lat, lon float64) url.Values
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Reverse(ctx context.Context, lat, lon float64) (geo.Place, error) {
	start := time.Now()
	payload, err := p.get(ctx, p.query(lat, lon))
	metrics.RecordGeocoderCall(p.name, time.Since(start), err)
	if err != nil {
		return geo.UnknownPlace(), err
	}
	return p.extractor.extract(p.n, payload), nil
}

func (p *httpProvider) get(ctx context.Context, query url.Values) (any, error) {
	endpoint := strings.TrimRight(p.baseURL, "/") + "/reverse?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Service: p.name, Code: resp.StatusCode}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", p.name, err)
	}
	return payload, nil
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewPhotonProvider creates a Photon reverse geocoder. An empty baseURL uses
// the public komoot instance.
func NewPhotonProvider(n *geo.Normalizer, client *http.Client, baseURL, userAgent string) Provider {
	if baseURL == "" {
		baseURL = DefaultPhotonURL
	}
	return &httpProvider{
		name:      "photon",
		client:    httpClient(client),
		baseURL:   baseURL,
		userAgent: userAgent,
		n:         n,
		extractor: photonExtractor,
		query: func(lat, lon float64) url.Values {
			return url.Values{"lat": {formatCoordinate(lat)}, "lon": {formatCoordinate(lon)}}
		},
	}
}

// NewNominatimProvider creates a Nominatim reverse geocoder. Nominatim's
// usage policy requires an identifying User-Agent.
func NewNominatimProvider(n *geo.Normalizer, client *http.Client, baseURL, userAgent string) Provider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &httpProvider{
		name:      "nominatim",
		client:    httpClient(client),
		baseURL:   baseURL,
		userAgent: userAgent,
		n:         n,
		extractor: nominatimExtractor,
		query: func(lat, lon float64) url.Values {
			return url.Values{
				"format": {"jsonv2"},
				"zoom":   {"10"},
				"lat":    {formatCoordinate(lat)},
				"lon":    {formatCoordinate(lon)},
			}
		},
	}
}

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: 10 * time.Second}
}
