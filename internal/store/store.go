// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

// Package store provides the local persistent key-value cache that backs the
// location dictionary.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("store: key not found")

// KV is string key-value storage.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Type selects a storage backend.
type Type string

const (
	// TypeMemory keeps values in process memory only.
	TypeMemory Type = "memory"

	// TypeBadger persists values in a BadgerDB directory.
	TypeBadger Type = "badger"
)

// Open creates a KV for the given backend. An empty path with TypeBadger
// opens an in-memory badger instance.
func Open(kind Type, path string) (KV, error) {
	switch kind {
	case TypeMemory, "":
		return NewMemory(), nil
	case TypeBadger:
		b, err := OpenBadger(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", kind)
	}
}
