// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/patrolmap/internal/logging"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	var gotRequest, gotCorrelation string
	handler := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotRequest = logging.RequestIDFromContext(r.Context())
		gotCorrelation = logging.CorrelationIDFromContext(r.Context())
	}))

	t.Run("generates an id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if gotRequest == "" || rec.Header().Get(RequestIDHeader) != gotRequest {
			t.Errorf("request id = %q, header = %q", gotRequest, rec.Header().Get(RequestIDHeader))
		}
		if gotCorrelation == "" {
			t.Error("expected a correlation id")
		}
	})

	t.Run("keeps a valid upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "proxy-123")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotRequest != "proxy-123" {
			t.Errorf("request id = %q, expected proxy-123", gotRequest)
		}
	})

	t.Run("replaces an unsafe upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "bad id\nwith newline")
		handler.ServeHTTP(httptest.NewRecorder(), req)
		if gotRequest == "bad id\nwith newline" || gotRequest == "" {
			t.Errorf("request id = %q, expected a generated id", gotRequest)
		}
	})
}
