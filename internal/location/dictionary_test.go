// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/models"
	"github.com/tomtom215/patrolmap/internal/store"
)

// failingKV rejects every write, like a browser storage quota.
type failingKV struct{ store.KV }

func (failingKV) Set(context.Context, string, string) error { return errors.New("quota exceeded") }

func recordAt(id string, lat, lon float64) models.Record {
	return models.Record{ID: id, Location: geo.Point{Lat: lat, Lon: lon}, HasLocation: true}
}

func TestDictionaryLoadFiltersKeys(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory()
	persisted := `{
		"51.50,-0.10": {"label":"London, UK","country":"UK","constituency":"Greater London"},
		"48.85,2.35": "Paris, France",
		"51.5,-0.1": "old key format",
		"51.50, -0.10": "resolution key format"
	}`
	if err := kv.Set(context.Background(), StorageKey, persisted); err != nil {
		t.Fatal(err)
	}

	d := OpenDictionary(context.Background(), NewResolver(Options{Normalizer: testNormalizer}), kv)
	snap := d.Snapshot()
	if snap.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", snap.Len())
	}

	london, _ := snap.Get("51.50,-0.10")
	if london.Country != "United Kingdom" || london.CountryCode != "GB" || london.Constituency != "Greater London" {
		t.Errorf("object entry = %+v", london)
	}
	paris, _ := snap.Get("48.85,2.35")
	if paris.Country != "France" || paris.Label != "Paris, France" {
		t.Errorf("label entry = %+v", paris)
	}
}

func TestDictionaryLoadCorrupt(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory()
	_ = kv.Set(context.Background(), StorageKey, "{not json")

	d := OpenDictionary(context.Background(), NewResolver(Options{Normalizer: testNormalizer}), kv)
	if d.Len() != 0 {
		t.Errorf("corrupt storage gave %d entries, expected 0", d.Len())
	}
}

func TestDictionaryPersistsEachResolution(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory()
	r := NewResolver(Options{
		Normalizer: testNormalizer,
		Primary:    fixedProvider("photon", geo.Place{Country: "Ghana", Constituency: "Greater Accra", Level: geo.LevelRegion}),
		Live:       true,
	})
	d := NewDictionary(r, kv)

	n, err := d.Enrich(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 5.6, -0.19)}))
	if err != nil || n != 1 {
		t.Fatalf("Enrich() = (%d, %v), expected (1, nil)", n, err)
	}

	raw, err := kv.Get(context.Background(), StorageKey)
	if err != nil {
		t.Fatalf("nothing persisted: %v", err)
	}
	var saved map[string]geo.Place
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		t.Fatal(err)
	}
	if saved["5.60,-0.19"].Constituency != "Greater Accra" {
		t.Errorf("persisted = %s", raw)
	}

	reloaded := OpenDictionary(context.Background(), r, kv)
	if p, ok := reloaded.Snapshot().Get("5.60,-0.19"); !ok || p.Level != geo.LevelRegion {
		t.Errorf("reloaded entry = %+v (ok=%v)", p, ok)
	}
}

func TestDictionarySaveFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	r := NewResolver(Options{Normalizer: testNormalizer, Table: tableRows(row("", 1, 1, "Gabon", ""))})
	d := NewDictionary(r, failingKV{store.NewMemory()})

	added := d.Prefill(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 1, 1)}))
	if added != 1 || d.Len() != 1 {
		t.Errorf("Prefill() = %d, Len() = %d, expected 1/1", added, d.Len())
	}
}

func TestDictionaryEnrichSkipRules(t *testing.T) {
	t.Parallel()

	complete := geo.Place{Label: "Kent", Country: "United Kingdom", Constituency: "Kent", Level: geo.LevelCounty}
	countryOnly := geo.Place{Label: "France", Country: "France"}

	tests := []struct {
		name     string
		live     bool
		existing map[string]any
		calls    int
	}{
		{"complete entry skipped", true, map[string]any{"1.00,1.00": complete}, 0},
		{"country only re-resolved when live", true, map[string]any{"1.00,1.00": countryOnly}, 1},
		{"country only kept when offline", false, map[string]any{"1.00,1.00": countryOnly}, 0},
		{"missing entry resolved", true, map[string]any{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kv := store.NewMemory()
			data, _ := json.Marshal(tt.existing)
			_ = kv.Set(context.Background(), StorageKey, string(data))

			primary := fixedProvider("photon", geo.Place{Country: "France", Constituency: "Nord", Level: geo.LevelCounty})
			r := NewResolver(Options{Normalizer: testNormalizer, Primary: primary, Live: tt.live})
			d := OpenDictionary(context.Background(), r, kv)

			if _, err := d.Enrich(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 1, 1)})); err != nil {
				t.Fatalf("Enrich() error = %v", err)
			}
			if primary.callCount() != tt.calls {
				t.Errorf("live calls = %d, expected %d", primary.callCount(), tt.calls)
			}
		})
	}
}

func TestDictionaryEnrichMergesWithExisting(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory()
	_ = kv.Set(context.Background(), StorageKey, `{"1.00,1.00":{"label":"France","country":"France"}}`)
	// The live answer is unknown; the existing country must survive.
	r := NewResolver(Options{Normalizer: testNormalizer, Primary: &fakeProvider{name: "photon"}, Live: true})
	d := OpenDictionary(context.Background(), r, kv)

	if _, err := d.Enrich(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 1, 1)})); err != nil {
		t.Fatal(err)
	}
	if p, _ := d.Snapshot().Get("1.00,1.00"); p.Country != "France" {
		t.Errorf("entry regressed to %+v", p)
	}
}

func TestDictionaryEnrichRunsOnce(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	slow := &fakeProvider{name: "photon", fn: func(float64, float64) (geo.Place, error) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return geo.Place{Country: "Japan", Constituency: "Tokyo", Level: geo.LevelRegion}, nil
	}}
	d := NewDictionary(NewResolver(Options{Normalizer: testNormalizer, Primary: slow, Live: true}), nil)
	points := UniqueCoordinates([]models.Record{recordAt("a", 35.68, 139.69)})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = d.Enrich(context.Background(), points)
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("enrichment never reached the provider")
	}
	if !d.Running() {
		t.Error("Running() = false during a pass")
	}
	if _, err := d.Enrich(context.Background(), points); !errors.Is(err, ErrEnrichmentRunning) {
		t.Errorf("second Enrich() error = %v, expected ErrEnrichmentRunning", err)
	}

	close(release)
	wg.Wait()
	if d.Running() {
		t.Error("Running() = true after the pass")
	}
}

func TestDictionaryEnrichCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	primary := &fakeProvider{name: "photon", fn: func(float64, float64) (geo.Place, error) {
		cancel()
		return geo.UnknownPlace(), context.Canceled
	}}
	d := NewDictionary(NewResolver(Options{Normalizer: testNormalizer, Primary: primary, Live: true}), nil)

	_, err := d.Enrich(ctx, UniqueCoordinates([]models.Record{recordAt("a", 3, 3), recordAt("b", 4, 4)}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Enrich() error = %v, expected context.Canceled", err)
	}
	if d.Len() != 0 {
		t.Errorf("cancelled resolution was stored: %d entries", d.Len())
	}
}

func TestDictionaryOnUpdateAndSnapshots(t *testing.T) {
	t.Parallel()

	r := NewResolver(Options{
		Normalizer: testNormalizer,
		Primary:    fixedProvider("photon", geo.Place{Country: "Norway", Constituency: "Oslo", Level: geo.LevelCounty}),
		Live:       true,
	})
	d := NewDictionary(r, nil)
	before := d.Snapshot()

	var seen []int
	d.OnUpdate(func(s *Snapshot) { seen = append(seen, s.Len()) })

	records := []models.Record{recordAt("a", 59.91, 10.75), recordAt("b", 59.91, 10.75), recordAt("c", 60.39, 5.32)}
	if _, err := d.Enrich(context.Background(), UniqueCoordinates(records)); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("update sizes = %v, expected [1 2]", seen)
	}
	if before.Len() != 0 {
		t.Errorf("old snapshot mutated to %d entries", before.Len())
	}
	if d.Snapshot() != d.Snapshot() {
		t.Error("unchanged dictionary should reuse its snapshot")
	}
}

func TestDictionaryUnsubscribe(t *testing.T) {
	t.Parallel()

	r := NewResolver(Options{Normalizer: testNormalizer, Table: tableRows(row("", 1, 1, "Gabon", ""), row("", 2, 2, "Peru", ""))})
	d := NewDictionary(r, nil)

	var first, second int
	stopFirst := d.OnUpdate(func(*Snapshot) { first++ })
	d.OnUpdate(func(*Snapshot) { second++ })

	d.Prefill(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 1, 1)}))
	stopFirst()
	stopFirst()
	d.Prefill(context.Background(), UniqueCoordinates([]models.Record{recordAt("b", 2, 2)}))

	if first != 1 || second != 2 {
		t.Errorf("callbacks = %d/%d, expected 1/2", first, second)
	}
}

func TestDictionaryEnrichSkipsUnknownResults(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory()
	primary := &fakeProvider{name: "photon"}
	d := NewDictionary(NewResolver(Options{Normalizer: testNormalizer, Primary: primary, Live: true}), kv)

	updates := 0
	d.OnUpdate(func(*Snapshot) { updates++ })

	n, err := d.Enrich(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 7, 7)}))
	if err != nil || n != 0 {
		t.Fatalf("Enrich() = (%d, %v), expected (0, nil)", n, err)
	}
	if d.Len() != 0 || updates != 0 {
		t.Errorf("unknown result stored: Len() = %d, updates = %d", d.Len(), updates)
	}
	if _, err := kv.Get(context.Background(), StorageKey); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown result persisted: %v", err)
	}

	// Not stored, so the next pass asks again.
	_, _ = d.Enrich(context.Background(), UniqueCoordinates([]models.Record{recordAt("a", 7, 7)}))
	if primary.callCount() < 2 {
		t.Errorf("live calls = %d, expected a retry", primary.callCount())
	}
}

func TestDictionaryResolveOnDemand(t *testing.T) {
	t.Parallel()

	primary := fixedProvider("photon", geo.Place{Country: "Chile", Constituency: "Valparaíso", Level: geo.LevelRegion})
	d := NewDictionary(NewResolver(Options{Normalizer: testNormalizer, Primary: primary, Live: true}), nil)

	p := d.Resolve(context.Background(), geo.Point{Lat: -33.05, Lon: -71.62})
	if p.Country != "Chile" {
		t.Errorf("Resolve() = %+v", p)
	}
	_ = d.Resolve(context.Background(), geo.Point{Lat: -33.05, Lon: -71.62})
	if primary.callCount() != 1 {
		t.Errorf("second Resolve() made a live call (%d total)", primary.callCount())
	}
	if got := d.Resolve(context.Background(), geo.Point{}); got.Known() {
		t.Errorf("(0,0) resolved to %+v", got)
	}
}

func TestSnapshotCountryInfo(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot(testNormalizer, map[string]geo.Place{
		"51.50,-0.10": {Label: "London", Country: "United Kingdom", CountryCode: "GB", Constituency: "Greater London"},
		"52.00,-1.00": {Label: "Somewhere", Country: "United Kingdom"},
		"10.00,10.00": {Label: "Atlantis", Country: "Atlantis"},
	})

	info := snap.CountryInfo(recordAt("a", 51.5, -0.1))
	if info.CountryKey != "cc:GB" || info.ConstituencyKey != "cc:GB|greater london" {
		t.Errorf("CountryInfo() = %+v", info)
	}

	if info := snap.CountryInfo(recordAt("b", 52, -1)); info.CountryCode != "GB" || info.ConstituencyKey != "" {
		t.Errorf("code should come from the dictionary: %+v", info)
	}

	info = snap.CountryInfo(recordAt("c", 10, 10))
	if info.CountryKey != "nm:atlantis" || info.CountryCode != "" {
		t.Errorf("name-keyed info = %+v", info)
	}

	missing := snap.CountryInfo(models.Record{ID: "d"})
	if missing.Known() || missing.Label != geo.UnknownLocation || !strings.HasPrefix(missing.CountryKey, "nm:") {
		t.Errorf("record without location = %+v", missing)
	}
}
