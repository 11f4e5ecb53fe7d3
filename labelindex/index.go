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


// Package labelindex is an inverted index from normalized visual labels to
// photos. Labels come from running a thumbnail of each photo through the
// visual classifier.
package labelindex

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/media"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/vocab"
)

const (
	// IndexName identifies the index in progress reports and checkpoints.
	IndexName = "labels"

	// DefaultMinConfidence drops classifier labels below this confidence.
	DefaultMinConfidence = 0.4

	// DefaultMaxLabels caps the labels kept per photo.
	DefaultMaxLabels = 10

	reportInterval  = 10
	persistInterval = 100
)

// MatchMode selects how SearchAll combines labels.
type MatchMode int

const (
	// MatchAny returns photos carrying at least one of the labels.
	MatchAny MatchMode = iota
	// MatchAll returns photos carrying every label.
	MatchAll
)

// Index is the visual label index. Builds and clears are serialized by
// buildMu; mu guards the maps.
type Index struct {
	assets        storage.AssetRepository
	blobs         storage.BlobStore
	classifier    ai.VisualClassifier
	decoder       media.Decoder
	minConfidence float64
	maxLabels     int
	logger        *slog.Logger

	buildMu sync.Mutex

	mu          sync.RWMutex
	labels      map[string]core.IDSet
	assetLabels map[core.AssetID][]string
	indexed     core.IDSet

	tracker atomic.Pointer[indexing.Tracker]
}

// Option configures an Index.
type Option func(*Index) error

// WithMinConfidence sets the confidence threshold.
func WithMinConfidence(c float64) Option {
	return func(idx *Index) error {
		if c < 0 || c > 1 {
			return fmt.Errorf("min confidence %v out of range", c)
		}
		idx.minConfidence = c
		return nil
	}
}

// WithMaxLabels sets the per-photo label cap.
func WithMaxLabels(n int) Option {
	return func(idx *Index) error {
		if n < 1 {
			return fmt.Errorf("max labels must be positive, got %d", n)
		}
		idx.maxLabels = n
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
func NewIndex(ctx context.Context, assets storage.AssetRepository, blobs storage.BlobStore,
	classifier ai.VisualClassifier, decoder media.Decoder, opts ...Option) (*Index, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if blobs == nil {
		return nil, ErrBlobStoreRequired
	}
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if decoder == nil {
		return nil, ErrDecoderRequired
	}

	idx := &Index{
		assets:        assets,
		blobs:         blobs,
		classifier:    classifier,
		decoder:       decoder,
		minConfidence: DefaultMinConfidence,
		maxLabels:     DefaultMaxLabels,
		logger:        slog.Default().With("component", "labelindex"),
	}
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}
	idx.reset()

	if err := idx.load(ctx); err != nil {
		idx.logger.Warn("discarding label snapshot", "err", err)
		idx.reset()
	}
	return idx, nil
}

func (idx *Index) reset() {
	idx.labels = make(map[string]core.IDSet)
	idx.assetLabels = make(map[core.AssetID][]string)
	idx.indexed = core.NewIDSet()
}

func (idx *Index) load(ctx context.Context) error {
	data, err := indexing.LoadSnapshot(ctx, idx.blobs, storage.LabelSnapshotKey)
	if err != nil || data == nil {
		return err
	}
	snap, err := storage.UnmarshalLabelSnapshot(data)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistenceFailure, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for id, raw := range snap.AssetLabels {
		idx.assetLabels[id] = raw
	}
	idx.indexed.Add(snap.Indexed...)

	if snap.VocabVersion != vocab.Version {
		// Raw labels are kept, so the inverted map can be rebuilt with the
		// current synonym table.
		idx.logger.Info("renormalizing labels", "snapshotVocab", snap.VocabVersion, "vocab", vocab.Version)
		for id, raw := range idx.assetLabels {
			idx.insert(id, raw)
		}
		return nil
	}
	for label, ids := range snap.Labels {
		idx.labels[label] = core.NewIDSet(ids...)
	}
	return nil
}

func (idx *Index) snapshot() []byte {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snap := &storage.LabelSnapshot{
		VocabVersion: vocab.Version,
		Labels:       make(map[string][]core.AssetID, len(idx.labels)),
		AssetLabels:  make(map[core.AssetID][]string, len(idx.assetLabels)),
		Indexed:      idx.indexed.Sorted(),
	}
	for label, ids := range idx.labels {
		snap.Labels[label] = ids.Sorted()
	}
	for id, raw := range idx.assetLabels {
		snap.AssetLabels[id] = raw
	}
	return storage.MarshalLabelSnapshot(snap)
}

func (idx *Index) persist(ctx context.Context) error {
	if err := indexing.SaveSnapshot(ctx, idx.blobs, storage.LabelSnapshotKey, idx.snapshot()); err != nil {
		idx.logger.Error("failed to persist label index", "err", err)
		return err
	}
	return nil
}

// insert adds the normalized form of each raw label. Caller must hold mu.
func (idx *Index) insert(id core.AssetID, raw []string) {
	for _, r := range raw {
		label := Normalize(r)
		if label == "" {
			continue
		}
		set, ok := idx.labels[label]
		if !ok {
			set = core.NewIDSet()
			idx.labels[label] = set
		}
		set.Add(id)
	}
}

// selectLabels applies the confidence threshold and the per-photo cap,
// highest confidence first.
func (idx *Index) selectLabels(labels []ai.Label) []string {
	kept := make([]ai.Label, 0, len(labels))
	for _, l := range labels {
		if l.Confidence >= idx.minConfidence && strings.TrimSpace(l.Name) != "" {
			kept = append(kept, l)
		}
	}
	slices.SortStableFunc(kept, func(a, b ai.Label) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	if len(kept) > idx.maxLabels {
		kept = kept[:idx.maxLabels]
	}

	raw := make([]string, len(kept))
	for i, l := range kept {
		raw[i] = strings.TrimSpace(l.Name)
	}
	return raw
}

// BuildIndex classifies every photo not yet indexed. Per-photo failures are
// counted and retried on the next run. Cancellation is checked between
// photos and keeps the progress made so far.
func (idx *Index) BuildIndex(ctx context.Context, opts ...indexing.BuildOption) (core.BuildStats, error) {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	options := indexing.ApplyOptions(opts...)
	stats := core.BuildStats{Index: IndexName}
	start := time.Now()

	var pending []*core.Asset
	err := idx.assets.ForEachAsset(ctx, func(a *core.Asset) error {
		stats.Total++
		if a.MediaType != core.MediaTypePhoto {
			return nil
		}
		stats.Eligible++
		idx.mu.RLock()
		done := idx.indexed.Contains(a.ID)
		idx.mu.RUnlock()
		if done {
			stats.Skipped++
			return nil
		}
		pending = append(pending, a)
		return nil
	})
	if ctx.Err() != nil {
		stats.Cancelled = true
		return stats, nil
	}
	if err != nil {
		return stats, err
	}
	if options.Limit > 0 && len(pending) > options.Limit {
		pending = pending[:options.Limit]
	}

	tracker := indexing.NewTracker(IndexName, len(pending), reportInterval, options)
	idx.tracker.Store(tracker)
	tracker.Start()
	defer tracker.Finish()

	sinceSave := 0
	for _, asset := range pending {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}

		raw, err := idx.classify(ctx, asset)
		tracker.Increment(1)
		if err != nil {
			if ctx.Err() != nil {
				stats.Cancelled = true
				break
			}
			stats.Failed++
			idx.logger.Warn("failed to label photo", "asset", asset.ID, "err", err)
			continue
		}

		idx.mu.Lock()
		if len(raw) > 0 {
			idx.assetLabels[asset.ID] = raw
			idx.insert(asset.ID, raw)
		}
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
	stats.UniqueKeys = len(idx.labels)
	idx.mu.RUnlock()
	stats.Elapsed = time.Since(start)

	idx.logger.Info("label index build complete",
		"photos", stats.Eligible,
		"newlyIndexed", stats.NewlyIndexed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"uniqueLabels", stats.UniqueKeys,
		"cancelled", stats.Cancelled,
		"elapsed", stats.Elapsed)
	return stats, persistErr
}

func (idx *Index) classify(ctx context.Context, asset *core.Asset) ([]string, error) {
	thumb, err := idx.decoder.Thumbnail(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("thumbnail: %w", err)
	}
	labels, err := idx.classifier.Classify(ctx, thumb)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return idx.selectLabels(labels), nil
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

	return indexing.DeleteSnapshot(ctx, idx.blobs, storage.LabelSnapshotKey)
}

// Search returns the photos carrying label after normalization, sorted by ID.
func (idx *Index) Search(label string) []core.AssetID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.labels[Normalize(label)].Sorted()
}

// SearchAll combines several labels. MatchAll returns nothing as soon as one
// label is absent from the index.
func (idx *Index) SearchAll(labels []string, mode MatchMode) []core.AssetID {
	if len(labels) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if mode == MatchAll {
		var result core.IDSet
		for _, l := range labels {
			set, ok := idx.labels[Normalize(l)]
			if !ok {
				return nil
			}
			if result == nil {
				result = set.Clone()
			} else {
				result = result.Intersect(set)
			}
		}
		return result.Sorted()
	}

	result := core.NewIDSet()
	for _, l := range labels {
		for id := range idx.labels[Normalize(l)] {
			result.Add(id)
		}
	}
	return result.Sorted()
}

// LabelsFor returns the raw labels recorded for a photo.
func (idx *Index) LabelsFor(id core.AssetID) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return slices.Clone(idx.assetLabels[id])
}

// IsIndexed reports whether the photo has been processed.
func (idx *Index) IsIndexed(id core.AssetID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.indexed.Contains(id)
}

// Stats returns the number of distinct labels and of processed photos.
func (idx *Index) Stats() (labels, assets int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.labels), len(idx.indexed)
}

// TopLabels returns up to n labels with the most photos, most frequent first.
func (idx *Index) TopLabels(n int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]string, 0, len(idx.labels))
	for l := range idx.labels {
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(len(idx.labels[b]), len(idx.labels[a])); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
