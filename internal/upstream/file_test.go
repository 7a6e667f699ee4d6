// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package upstream

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const dumpJSON = `{
  "photos": {
    "p1": {"pieces": 4, "published": true},
    "p2": {"pieces": 2}
  },
  "missions": {"m1": {"name": "River Clean"}},
  "waterTests": {
    "nitrate": {
      "w1": {"dateTime": "2023-01-01T00:00:00Z", "nitrateReading": 5},
      "w2": {"dateTime": "2023-03-01T00:00:00Z", "nitrateReading": 7},
      "w3": {"dateTime": "2023-02-01T00:00:00Z", "nitrateReading": 6}
    }
  }
}`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	src, err := Open(ctx, Config{Kind: KindFile, File: writeDump(t, dumpJSON)})
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer src.Close(ctx)

	photos, err := src.Records(ctx)
	if err != nil {
		t.Fatalf("Records() error: %v", err)
	}
	if len(photos) != 2 {
		t.Errorf("Records() returned %d docs, expected 2", len(photos))
	}

	missions, err := src.Missions(ctx)
	if err != nil || missions["m1"]["name"] != "River Clean" {
		t.Errorf("Missions() = %v, %v", missions, err)
	}

	latest, err := src.WaterTests(ctx, "nitrate", 2)
	if err != nil {
		t.Fatalf("WaterTests() error: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("WaterTests() returned %d docs, expected 2", len(latest))
	}
	if _, ok := latest["w1"]; ok {
		t.Error("oldest water test should be cut by the limit")
	}

	none, err := src.WaterTests(ctx, "ph", 10)
	if err != nil || len(none) != 0 {
		t.Errorf("unknown type = %v, %v; expected empty", none, err)
	}
	if err := src.Ping(ctx); err != nil {
		t.Errorf("Ping() error: %v", err)
	}
}

func TestFileSourceErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := OpenFile(""); err == nil {
		t.Error("OpenFile(\"\") expected error")
	}

	_, err := OpenFile(filepath.Join(t.TempDir(), "missing.json"))
	var re *ReadError
	if !errors.As(err, &re) || re.Source != "File" {
		t.Errorf("missing file error = %v, expected ReadError from File", err)
	}

	src, err := OpenFile(writeDump(t, "{not json"))
	if err != nil {
		t.Fatalf("OpenFile() error: %v", err)
	}
	if _, err := src.Records(ctx); err == nil {
		t.Error("Records() expected decode error")
	}

	if _, err := Open(ctx, Config{Kind: "redis"}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Open(redis) error = %v, expected ErrUnknownKind", err)
	}
}
