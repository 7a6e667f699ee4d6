// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package upstream

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/metrics"
	"github.com/tomtom215/patrolmap/internal/models"
)

// fileDump is the on-disk layout of a File source:
//
//	{"photos": {id: doc}, "missions": {id: doc}, "waterTests": {type: {id: doc}}}
type fileDump struct {
	Photos     map[string]models.Document            `json:"photos"`
	Missions   map[string]models.Document            `json:"missions"`
	WaterTests map[string]map[string]models.Document `json:"waterTests"`
}

// File serves collections from a JSON export. The file is re-read on every
// call so edits show up without a restart.
type File struct {
	path string
}

// OpenFile checks that path exists and returns a File source.
func OpenFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("upstream file path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, readError("File", err)
	}
	return &File{path: path}, nil
}

// Name implements Source.
func (f *File) Name() string { return "File" }

func (f *File) load() (dump fileDump, err error) {
	start := time.Now()
	defer func() { metrics.RecordUpstreamRead("file", time.Since(start), err) }()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return dump, readError(f.Name(), err)
	}
	if err := json.Unmarshal(data, &dump); err != nil {
		return dump, readError(f.Name(), fmt.Errorf("decode %s: %w", f.path, err))
	}
	return dump, nil
}

// Records implements Source.
func (f *File) Records(context.Context) (map[string]models.Document, error) {
	dump, err := f.load()
	if err != nil {
		return nil, err
	}
	return nonNil(dump.Photos), nil
}

// Missions implements Source.
func (f *File) Missions(context.Context) (map[string]models.Document, error) {
	dump, err := f.load()
	if err != nil {
		return nil, err
	}
	return nonNil(dump.Missions), nil
}

// WaterTests implements Source. Documents are ordered by dateTime the same
// way the database sorts before the limit is applied.
func (f *File) WaterTests(_ context.Context, testType string, limit int) (map[string]models.Document, error) {
	dump, err := f.load()
	if err != nil {
		return nil, err
	}
	docs := nonNil(dump.WaterTests[testType])
	if limit <= 0 || len(docs) <= limit {
		return docs, nil
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		ti, _ := models.ParseDate(docs[ids[i]]["dateTime"])
		tj, _ := models.ParseDate(docs[ids[j]]["dateTime"])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ids[i] > ids[j]
	})

	out := make(map[string]models.Document, limit)
	for _, id := range ids[:limit] {
		out[id] = docs[id]
	}
	return out, nil
}

// Ping implements Source.
func (f *File) Ping(context.Context) error {
	if _, err := os.Stat(f.path); err != nil {
		return readError(f.Name(), err)
	}
	return nil
}

// Close implements Source.
func (f *File) Close(context.Context) error { return nil }

func nonNil(docs map[string]models.Document) map[string]models.Document {
	if docs == nil {
		return map[string]models.Document{}
	}
	return docs
}
