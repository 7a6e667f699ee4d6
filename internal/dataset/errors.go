// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package dataset

import (
	"errors"
	"fmt"
)

// The messages are shown to end users as the load failure.
//
//nolint:stylecheck // user-facing sentences
var (
	ErrUnexpectedFormat = errors.New("Unexpected API response format. Expected { photos: { id: photo } }.")
	ErrNoRecords        = errors.New("API returned no photos.")
	ErrTimeout          = errors.New("API request timed out.")
)

// StatusError is a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed (%d).", e.StatusCode)
}

// retryable reports whether another attempt could succeed. Payload shape
// problems are permanent.
func retryable(err error) bool {
	return !errors.Is(err, ErrUnexpectedFormat) && !errors.Is(err, ErrNoRecords)
}
