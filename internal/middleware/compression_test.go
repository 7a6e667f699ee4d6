// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func largeBody(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(strings.Repeat(`{"pieces":1}`, 200)))
}

func TestCompression_WithGzipAccept(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	rec := httptest.NewRecorder()

	Compression(http.HandlerFunc(largeBody)).ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "gzip" {
		t.Fatalf("Expected Content-Encoding: gzip, got: %q", rec.Header().Get("Content-Encoding"))
	}
	reader, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("Failed to create gzip reader: %v", err)
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("Failed to read decompressed data: %v", err)
	}
	if string(decompressed) != strings.Repeat(`{"pieces":1}`, 200) {
		t.Error("Decompressed body does not match")
	}
}

func TestCompression_SkipsUnlistedTypes(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/logo.png", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()

	Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	})).ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Errorf("image response was compressed: %q", rec.Header().Get("Content-Encoding"))
	}
}

func TestCompression_WithoutGzipAccept(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		req := httptest.NewRequest(method, "/api/dashboard", nil)
		if method == http.MethodHead {
			req.Header.Set("Accept-Encoding", "gzip")
		}
		rec := httptest.NewRecorder()

		Compression(http.HandlerFunc(largeBody)).ServeHTTP(rec, req)

		if rec.Header().Get("Content-Encoding") != "" {
			t.Errorf("%s: expected no Content-Encoding, got %q", method, rec.Header().Get("Content-Encoding"))
		}
	}
}
