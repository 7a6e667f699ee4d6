// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package upstream reads the record, mission and water-test collections
// from the document store behind the dashboard.
//
// Two sources are provided: MongoDB for deployments and a JSON file for
// local development and tests. Every document is returned as a plain
// JSON-compatible map keyed by its identifier, with store-specific types
// (timestamps, object ids, decimals) converted to strings and numbers.
package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/patrolmap/internal/models"
)

// Kind selects a Source implementation.
type Kind string

const (
	KindMongo Kind = "mongo"
	KindFile  Kind = "file"
)

// ErrUnknownKind is returned by Open for an unsupported kind.
var ErrUnknownKind = errors.New("unknown upstream kind")

// Source is a read-only document store.
type Source interface {
	// Name is the human-readable store name used in error messages.
	Name() string

	Records(ctx context.Context) (map[string]models.Document, error)
	Missions(ctx context.Context) (map[string]models.Document, error)

	// WaterTests returns up to limit submissions of one test type, newest
	// first. limit <= 0 means no limit.
	WaterTests(ctx context.Context, testType string, limit int) (map[string]models.Document, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Config selects and configures a Source.
type Config struct {
	Kind  Kind
	File  string
	Mongo MongoConfig
}

// Open creates the configured Source.
func Open(ctx context.Context, cfg Config) (Source, error) {
	switch cfg.Kind {
	case KindMongo:
		return OpenMongo(ctx, cfg.Mongo)
	case KindFile, "":
		return OpenFile(cfg.File)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// ReadError prefixes a read failure with the store name, for example
// "Mongo read failed: connection refused".
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s read failed: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

func readError(source string, err error) error {
	if err == nil {
		return nil
	}
	var re *ReadError
	if errors.As(err, &re) {
		return err
	}
	return &ReadError{Source: source, Err: err}
}
