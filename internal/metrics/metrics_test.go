// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/photos", "200"))
	RecordAPIRequest("GET", "/api/photos", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/photos", "200"))
	if after != before+1 {
		t.Errorf("api_requests_total = %v, expected %v", after, before+1)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start+1 {
		t.Errorf("api_active_requests = %v, expected %v", got, start+1)
	}
	TrackActiveRequest(false)
}

func TestRecordUpstreamRead(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		err       error
		wantError float64
	}{
		{"success", "photos-ok", nil, 0},
		{"failure", "photos-fail", errors.New("connection refused"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordUpstreamRead(tt.source, time.Millisecond, tt.err)
			if got := testutil.ToFloat64(UpstreamReadErrors.WithLabelValues(tt.source)); got != tt.wantError {
				t.Errorf("upstream_read_errors_total{%s} = %v, expected %v", tt.source, got, tt.wantError)
			}
		})
	}
}

func TestRecordGeocoderCall(t *testing.T) {
	before := testutil.ToFloat64(GeocoderErrors.WithLabelValues("test-provider"))
	RecordGeocoderCall("test-provider", time.Second, nil)
	RecordGeocoderCall("test-provider", time.Second, errors.New("status 503"))
	if got := testutil.ToFloat64(GeocoderErrors.WithLabelValues("test-provider")); got != before+1 {
		t.Errorf("geocoder_errors_total = %v, expected %v", got, before+1)
	}
}

func TestGeocoderCallDurationObserved(t *testing.T) {
	RecordGeocoderCall("histogram-provider", 250*time.Millisecond, nil)
	RecordGeocoderCall("histogram-provider", 750*time.Millisecond, nil)

	hist, ok := GeocoderCallDuration.WithLabelValues("histogram-provider").(prometheus.Histogram)
	if !ok {
		t.Fatal("geocoder duration observer is not a histogram")
	}
	var m dto.Metric
	if err := hist.Write(&m); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got := m.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("sample count = %d, expected 2", got)
	}
	if got := m.GetHistogram().GetSampleSum(); got != 1.0 {
		t.Errorf("sample sum = %v, expected 1.0", got)
	}
}
