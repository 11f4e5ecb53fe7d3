// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package geoindex is a multi-precision geohash inverted index over asset
// GPS coordinates.
//
// Every located asset is stored under each prefix of its geohash from
// MinPrecision up to the configured full precision, so a search at any of
// those lengths is a direct map lookup. Coarser searches expand a cell into
// its MinPrecision children.
package geoindex

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/storage"
)

const (
	// IndexName identifies the index in progress reports and checkpoints.
	IndexName = "geo"

	// MinPrecision is the shortest prefix stored in the cell map.
	MinPrecision = 4

	// DefaultPrecision is the default full geohash precision.
	DefaultPrecision = 6

	reportInterval  = 100
	persistInterval = 500
)

// Index is the spatial index. Builds and clears are serialized by buildMu;
// mu guards the maps and is only held for short critical sections so
// searches observe committed state while a build runs.
type Index struct {
	assets    storage.AssetRepository
	blobs     storage.BlobStore
	geocoder  ai.Geocoder
	chat      ai.ChatService
	precision int
	logger    *slog.Logger

	buildMu sync.Mutex

	mu      sync.RWMutex
	cells   map[string]core.IDSet
	hashes  map[core.AssetID]string
	indexed core.IDSet

	tracker atomic.Pointer[indexing.Tracker]
}

// Option configures an Index.
type Option func(*Index) error

// WithPrecision sets the full geohash precision P.
func WithPrecision(p int) Option {
	return func(idx *Index) error {
		if p < MinPrecision || p > MaxPrecision {
			return fmt.Errorf("%w: %d", ErrInvalidPrecision, p)
		}
		idx.precision = p
		return nil
	}
}

// WithGeocoder sets the geocoder used by Search.
func WithGeocoder(g ai.Geocoder) Option {
	return func(idx *Index) error {
		idx.geocoder = g
		return nil
	}
}

// WithChatService sets the chat service used to resolve ambiguous place names.
func WithChatService(chat ai.ChatService) Option {
	return func(idx *Index) error {
		idx.chat = chat
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(idx *Index) error {
		idx.logger = logger
		return nil
	}
}

// NewIndex creates the index and hydrates it from the blob store.
// An unreadable or incompatible snapshot is logged and the index starts empty.
func NewIndex(ctx context.Context, assets storage.AssetRepository, blobs storage.BlobStore, opts ...Option) (*Index, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}

	idx := &Index{
		assets:    assets,
		blobs:     blobs,
		precision: DefaultPrecision,
		logger:    slog.Default().With("component", "geoindex"),
	}
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}
	idx.reset()

	if err := idx.load(ctx); err != nil {
		idx.logger.Warn("discarding geo snapshot", "err", err)
		idx.reset()
	}
	return idx, nil
}

// reset empties the maps. Caller must hold mu or own idx exclusively.
func (idx *Index) reset() {
	idx.cells = make(map[string]core.IDSet)
	idx.hashes = make(map[core.AssetID]string)
	idx.indexed = core.NewIDSet()
}

func (idx *Index) load(ctx context.Context) error {
	data, err := indexing.LoadSnapshot(ctx, idx.blobs, storage.GeoSnapshotKey)
	if err != nil || data == nil {
		return err
	}
	snap, err := storage.UnmarshalGeoSnapshot(data)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistenceFailure, err)
	}
	if snap.Precision != idx.precision {
		return fmt.Errorf("%w: snapshot precision %d, want %d", core.ErrPersistenceFailure, snap.Precision, idx.precision)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for cell, ids := range snap.Cells {
		idx.cells[cell] = core.NewIDSet(ids...)
	}
	for id, hash := range snap.Hashes {
		idx.hashes[id] = hash
	}
	idx.indexed.Add(snap.Indexed...)
	idx.logger.Debug("loaded geo snapshot", "assets", len(idx.hashes), "cells", len(idx.cells))
	return nil
}

func (idx *Index) snapshot() []byte {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snap := &storage.GeoSnapshot{
		Precision: idx.precision,
		Cells:     make(map[string][]core.AssetID, len(idx.cells)),
		Hashes:    make(map[core.AssetID]string, len(idx.hashes)),
		Indexed:   idx.indexed.Sorted(),
	}
	for cell, ids := range idx.cells {
		snap.Cells[cell] = ids.Sorted()
	}
	for id, hash := range idx.hashes {
		snap.Hashes[id] = hash
	}
	return storage.MarshalGeoSnapshot(snap)
}

func (idx *Index) persist(ctx context.Context) error {
	if err := indexing.SaveSnapshot(ctx, idx.blobs, storage.GeoSnapshotKey, idx.snapshot()); err != nil {
		idx.logger.Error("failed to persist geo index", "err", err)
		return err
	}
	return nil
}

// insert records an asset under every prefix of hash. Caller must hold mu.
func (idx *Index) insert(id core.AssetID, hash string) {
	idx.hashes[id] = hash
	for n := MinPrecision; n <= len(hash); n++ {
		prefix := hash[:n]
		set, ok := idx.cells[prefix]
		if !ok {
			set = core.NewIDSet()
			idx.cells[prefix] = set
		}
		set.Add(id)
	}
}

// BuildIndex indexes every asset not yet processed. Assets without a
// location are counted in Total only. Running it again on an unchanged
// library indexes nothing.
func (idx *Index) BuildIndex(ctx context.Context, opts ...indexing.BuildOption) (core.BuildStats, error) {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	options := indexing.ApplyOptions(opts...)
	stats := core.BuildStats{Index: IndexName}
	start := time.Now()

	var all []*core.Asset
	err := idx.assets.ForEachAsset(ctx, func(a *core.Asset) error {
		all = append(all, a)
		return nil
	})
	if ctx.Err() != nil {
		stats.Cancelled = true
		return stats, nil
	}
	if err != nil {
		return stats, err
	}

	tracker := indexing.NewTracker(IndexName, len(all), reportInterval, options)
	idx.tracker.Store(tracker)
	tracker.Start()
	defer tracker.Finish()

	sinceSave := 0
	for _, asset := range all {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}
		if options.LimitReached(stats.NewlyIndexed) {
			break
		}
		stats.Total++
		tracker.Increment(1)

		if asset.HasLocation() {
			stats.Eligible++
		}

		idx.mu.RLock()
		done := idx.indexed.Contains(asset.ID)
		idx.mu.RUnlock()
		if done {
			stats.Skipped++
			continue
		}
		if !asset.HasLocation() {
			continue
		}

		hash := Encode(asset.Location.Latitude, asset.Location.Longitude, idx.precision)
		idx.mu.Lock()
		idx.insert(asset.ID, hash)
		idx.indexed.Add(asset.ID)
		idx.mu.Unlock()
		stats.NewlyIndexed++

		sinceSave++
		if sinceSave >= persistInterval {
			_ = idx.persist(ctx)
			sinceSave = 0
		}
	}

	persistErr := idx.persist(ctx)

	idx.mu.RLock()
	stats.UniqueKeys = len(idx.cells)
	idx.mu.RUnlock()
	stats.Elapsed = time.Since(start)

	idx.logger.Info("geo index build complete",
		"total", stats.Total,
		"withLocation", stats.Eligible,
		"newlyIndexed", stats.NewlyIndexed,
		"skipped", stats.Skipped,
		"uniqueCells", stats.UniqueKeys,
		"cancelled", stats.Cancelled,
		"elapsed", stats.Elapsed)
	return stats, persistErr
}

// Progress returns the progress of the current or most recent build.
func (idx *Index) Progress() indexing.Progress {
	if t := idx.tracker.Load(); t != nil {
		return t.Snapshot()
	}
	return indexing.Progress{Index: IndexName}
}

// Clear empties the index and deletes its snapshot.
func (idx *Index) Clear(ctx context.Context) error {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	idx.mu.Lock()
	idx.reset()
	idx.mu.Unlock()

	return indexing.DeleteSnapshot(ctx, idx.blobs, storage.GeoSnapshotKey)
}

// Stats returns the number of indexed assets with a location and the number of cells.
func (idx *Index) Stats() (assets, cells int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.hashes), len(idx.cells)
}

// Precision returns the full geohash precision.
func (idx *Index) Precision() int {
	return idx.precision
}

// Geohash returns the full-precision geohash recorded for an asset.
func (idx *Index) Geohash(id core.AssetID) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	hash, ok := idx.hashes[id]
	return hash, ok
}

// IsIndexed reports whether the asset has been processed.
func (idx *Index) IsIndexed(id core.AssetID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.indexed.Contains(id)
}

// SearchByCoordinate returns the assets in the cell containing the point and
// its eight neighbours, at a precision chosen from the radius. The result is
// sorted by ID.
func (idx *Index) SearchByCoordinate(lat, lon, radiusKm float64) []core.AssetID {
	precision := min(PrecisionForRadius(radiusKm), idx.precision)

	target := Encode(lat, lon, precision)
	cells := append([]string{target}, Neighbors(target)...)

	// Cells shorter than the stored minimum are answered through their children.
	for len(cells) > 0 && len(cells[0]) < MinPrecision {
		expanded := make([]string, 0, len(cells)*32)
		for _, c := range cells {
			expanded = append(expanded, Children(c)...)
		}
		cells = expanded
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := core.NewIDSet()
	for _, c := range cells {
		for id := range idx.cells[c] {
			result.Add(id)
		}
	}
	return result.Sorted()
}
