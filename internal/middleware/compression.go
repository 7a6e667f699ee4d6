// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// CompressionLevel is the gzip/deflate level of API responses.
const CompressionLevel = 5

// compressedTypes are the response types worth compressing. Dashboard views
// and the resolution table are the large ones.
var compressedTypes = []string{"application/json", "text/plain"}

var compressor = chimw.Compress(CompressionLevel, compressedTypes...)

// Compression negotiates gzip or deflate for JSON and text responses. HEAD
// requests pass through untouched.
func Compression(next http.Handler) http.Handler {
	compressed := compressor(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		compressed.ServeHTTP(w, r)
	})
}
