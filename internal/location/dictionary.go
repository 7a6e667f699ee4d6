// Patrolmap - Litter Report Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/patrolmap

package location

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"

	"github.com/tomtom215/patrolmap/internal/geo"
	"github.com/tomtom215/patrolmap/internal/logging"
	"github.com/tomtom215/patrolmap/internal/metrics"
	"github.com/tomtom215/patrolmap/internal/models"
	"github.com/tomtom215/patrolmap/internal/store"
)

// StorageKey is the KV key holding the persisted dictionary.
const StorageKey = "planetpatrol.locationDictionary.v1"

// ErrEnrichmentRunning is returned by Enrich while another pass is active.
var ErrEnrichmentRunning = errors.New("location enrichment already running")

// Dictionary is the coordinate to place cache. It is safe for concurrent
// use; readers work on immutable snapshots.
type Dictionary struct {
	resolver *Resolver
	n        *geo.Normalizer
	kv       store.KV
	key      string

	mu      sync.RWMutex
	entries map[string]geo.Place
	snap    *Snapshot

	running atomic.Bool

	subMu       sync.Mutex
	nextSub     uint64
	subscribers []subscriber
}

type subscriber struct {
	id uint64
	fn func(*Snapshot)
}

// NewDictionary creates an empty dictionary. A nil kv keeps it in memory.
func NewDictionary(resolver *Resolver, kv store.KV) *Dictionary {
	if kv == nil {
		kv = store.NewMemory()
	}
	return &Dictionary{
		resolver: resolver,
		n:        resolver.Normalizer(),
		kv:       kv,
		key:      StorageKey,
		entries:  make(map[string]geo.Place),
	}
}

// OpenDictionary creates a dictionary and loads the persisted entries.
func OpenDictionary(ctx context.Context, resolver *Resolver, kv store.KV) *Dictionary {
	d := NewDictionary(resolver, kv)
	d.Load(ctx)
	return d
}

// Load replaces the in-memory entries with the persisted ones. Unreadable or
// corrupt storage yields an empty dictionary; keys not in the current format
// are dropped.
func (d *Dictionary) Load(ctx context.Context) {
	entries := make(map[string]geo.Place)
	defer func() {
		d.mu.Lock()
		d.entries = entries
		d.snap = nil
		d.mu.Unlock()
		metrics.DictionaryEntries.Set(float64(len(entries)))
	}()

	raw, err := d.kv.Get(ctx, d.key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Msg("Location dictionary unreadable, starting empty")
		}
		return
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Location dictionary corrupt, starting empty")
		return
	}
	for key, value := range parsed {
		if !geo.ValidCoordinateKey(key) {
			continue
		}
		entries[key] = decodeEntry(d.n, value)
	}
}

// decodeEntry accepts a bare label string or a place object.
func decodeEntry(n *geo.Normalizer, v any) geo.Place {
	switch x := v.(type) {
	case string:
		return n.PlaceFromLabel(x)
	case map[string]any:
		level := geo.LevelNone
		if f, ok := models.ToNumber(x["level"]); ok {
			level = geo.Level(int(f))
		}
		return n.Place(geo.Place{
			Label:        models.String(x["label"]),
			Country:      models.String(x["country"]),
			CountryCode:  models.String(x["countryCode"]),
			Constituency: models.String(x["constituency"]),
			Level:        level,
		})
	default:
		return geo.UnknownPlace()
	}
}

// Save persists the entries. Failures are logged and swallowed; the
// in-memory dictionary stays authoritative.
func (d *Dictionary) Save(ctx context.Context) {
	d.mu.RLock()
	data, err := json.Marshal(d.entries)
	d.mu.RUnlock()
	if err == nil {
		err = d.kv.Set(ctx, d.key, string(data))
	}
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Location dictionary save failed")
	}
}

// Running reports whether an enrichment pass is in progress.
func (d *Dictionary) Running() bool {
	return d.running.Load()
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// Snapshot returns an immutable view of the current entries.
func (d *Dictionary) Snapshot() *Snapshot {
	d.mu.RLock()
	if s := d.snap; s != nil {
		d.mu.RUnlock()
		return s
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snap == nil {
		d.snap = newSnapshot(d.n, d.entries)
	}
	return d.snap
}

// OnUpdate registers fn to be called with a fresh snapshot after every
// change. Callbacks run on the goroutine that made the change. The returned
// func removes the registration and may be called more than once.
func (d *Dictionary) OnUpdate(fn func(*Snapshot)) (unsubscribe func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	d.nextSub++
	id := d.nextSub
	d.subscribers = append(d.subscribers, subscriber{id: id, fn: fn})
	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		for i, sub := range d.subscribers {
			if sub.id == id {
				d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (d *Dictionary) notify() {
	d.subMu.Lock()
	subs := append([]subscriber(nil), d.subscribers...)
	d.subMu.Unlock()
	if len(subs) == 0 {
		return
	}
	snap := d.Snapshot()
	for _, sub := range subs {
		sub.fn(snap)
	}
}

func (d *Dictionary) set(key string, place geo.Place) {
	d.mu.Lock()
	d.entries[key] = place
	d.snap = nil
	n := len(d.entries)
	d.mu.Unlock()
	metrics.DictionaryEntries.Set(float64(n))
}

func (d *Dictionary) get(key string) (geo.Place, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.entries[key]
	return p, ok
}

// needsResolution reports whether an entry should be (re)resolved.
func (d *Dictionary) needsResolution(place geo.Place, exists bool) bool {
	if !exists {
		return true
	}
	if place.Complete() {
		return false
	}
	if !d.resolver.Live() && place.Known() {
		return false
	}
	return true
}

// UniqueCoordinates returns one point per dictionary key, in first-seen order.
func UniqueCoordinates(records []models.Record) []KeyedPoint {
	seen := make(map[string]struct{}, len(records))
	out := make([]KeyedPoint, 0, len(records))
	for i := range records {
		key := records[i].CoordinateKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, KeyedPoint{Key: key, Point: records[i].Location})
	}
	return out
}

// KeyedPoint is a coordinate with its dictionary key.
type KeyedPoint struct {
	Key string
	geo.Point
}

// Prefill fills missing keys from the offline table only. It is cheap enough
// to run synchronously before the first view is built.
func (d *Dictionary) Prefill(ctx context.Context, points []KeyedPoint) int {
	added := 0
	for _, p := range points {
		if _, ok := d.get(p.Key); ok {
			continue
		}
		place := d.resolver.ResolveOffline(p.Lat, p.Lon)
		if !place.Known() {
			continue
		}
		d.set(p.Key, place)
		added++
	}
	if added > 0 {
		d.Save(ctx)
		d.notify()
	}
	return added
}

// Enrich resolves every point whose entry is missing or incomplete,
// persisting and notifying after each successful resolution so partial
// progress survives interruption. Lookups that stay unknown are not stored
// and are retried by the next pass. Only one pass runs at a time.
func (d *Dictionary) Enrich(ctx context.Context, points []KeyedPoint) (int, error) {
	if !d.running.CompareAndSwap(false, true) {
		metrics.EnrichmentRuns.WithLabelValues("skipped").Inc()
		return 0, ErrEnrichmentRunning
	}
	defer d.running.Store(false)

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := logging.Ctx(ctx)
	log.Info().Int("points", len(points)).Bool("live", d.resolver.Live()).Msg("Location enrichment started")

	resolved := 0
	for _, p := range points {
		existing, ok := d.get(p.Key)
		if !d.needsResolution(existing, ok) {
			continue
		}
		place := d.resolver.Resolve(ctx, p.Lat, p.Lon)
		if err := ctx.Err(); err != nil {
			metrics.EnrichmentRuns.WithLabelValues("cancelled").Inc()
			log.Info().Int("resolved", resolved).Msg("Location enrichment cancelled")
			return resolved, err
		}
		if ok {
			var changed bool
			if place, changed = d.resolver.Merge(existing, place); !changed {
				continue
			}
		}
		if !place.Known() {
			continue
		}
		d.set(p.Key, place)
		d.Save(ctx)
		d.notify()
		resolved++
	}

	metrics.EnrichmentRuns.WithLabelValues("completed").Inc()
	log.Info().Int("resolved", resolved).Int("entries", d.Len()).Msg("Location enrichment finished")
	return resolved, nil
}

// Resolve returns the entry for a coordinate, resolving and storing it
// first when needed. Used by on-demand lookups outside enrichment passes.
func (d *Dictionary) Resolve(ctx context.Context, p geo.Point) geo.Place {
	if !p.Valid() {
		return geo.UnknownPlace()
	}
	key := p.Key()
	existing, ok := d.get(key)
	if !d.needsResolution(existing, ok) {
		return existing
	}
	place := d.resolver.Resolve(ctx, p.Lat, p.Lon)
	if ctx.Err() != nil {
		if ok {
			return existing
		}
		return place
	}
	if ok {
		place, _ = d.resolver.Merge(existing, place)
	}
	d.set(key, place)
	d.Save(ctx)
	d.notify()
	return place
}

// CountryInfo is the resolved location of one record.
type CountryInfo struct {
	Label           string `json:"label"`
	Country         string `json:"country"`
	CountryCode     string `json:"countryCode"`
	CountryKey      string `json:"countryKey"`
	Constituency    string `json:"constituency,omitempty"`
	ConstituencyKey string `json:"constituencyKey,omitempty"`
}

// Known reports whether the country is resolved.
func (c CountryInfo) Known() bool {
	return !geo.IsUnknownCountry(c.Country)
}

// Snapshot is a read-only copy of the dictionary.
type Snapshot struct {
	n       *geo.Normalizer
	entries map[string]geo.Place
	codes   map[string]string
}

func newSnapshot(n *geo.Normalizer, entries map[string]geo.Place) *Snapshot {
	copied := make(map[string]geo.Place, len(entries))
	keys := make([]string, 0, len(entries))
	for k, v := range entries {
		copied[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	codes := make(map[string]string)
	for _, k := range keys {
		p := copied[k]
		if p.CountryCode == "" {
			continue
		}
		if _, ok := codes[p.Country]; !ok {
			codes[p.Country] = p.CountryCode
		}
	}
	return &Snapshot{n: n, entries: copied, codes: codes}
}

// NewSnapshot builds a standalone snapshot, mainly for tests and tools.
func NewSnapshot(n *geo.Normalizer, entries map[string]geo.Place) *Snapshot {
	normalized := make(map[string]geo.Place, len(entries))
	for k, v := range entries {
		normalized[k] = n.Place(v)
	}
	return newSnapshot(n, normalized)
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Get returns the entry for a coordinate key.
func (s *Snapshot) Get(key string) (geo.Place, bool) {
	p, ok := s.entries[key]
	return p, ok
}

// Entries returns a copy of all entries.
func (s *Snapshot) Entries() map[string]geo.Place {
	out := make(map[string]geo.Place, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Normalizer returns the normalizer the snapshot groups with.
func (s *Snapshot) Normalizer() *geo.Normalizer {
	return s.n
}

// CountryCode returns the code for a country name, preferring codes seen in
// the dictionary over the name table.
func (s *Snapshot) CountryCode(country string) string {
	target := s.n.CountryName(country)
	if geo.IsUnknownCountry(target) {
		return ""
	}
	if code, ok := s.codes[target]; ok {
		return code
	}
	return s.n.CodeFromName(target)
}

// PlaceInfo resolves the info for a dictionary key. Unknown keys and "" give
// the unknown place.
func (s *Snapshot) PlaceInfo(key string) CountryInfo {
	place := geo.UnknownPlace()
	if key != "" {
		if p, ok := s.entries[key]; ok {
			place = p
		}
	}
	code := place.CountryCode
	if code == "" {
		code = s.CountryCode(place.Country)
	}
	countryKey := s.n.CountryGroupKey(place.Country, code)
	info := CountryInfo{
		Label:       place.Label,
		Country:     place.Country,
		CountryCode: code,
		CountryKey:  countryKey,
	}
	if place.Known() && place.HasConstituency() {
		info.Constituency = place.Constituency
		info.ConstituencyKey = geo.ConstituencyGroupKey(countryKey, place.Constituency)
	}
	if strings.TrimSpace(info.Label) == "" {
		info.Label = geo.UnknownLocation
	}
	return info
}

// CountryInfo resolves the location of a record.
func (s *Snapshot) CountryInfo(r models.Record) CountryInfo {
	return s.PlaceInfo(r.CoordinateKey())
}
