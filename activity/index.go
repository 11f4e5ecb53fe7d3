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


// Package activity indexes what happens in videos.
//
// Each video is analyzed once: three frames are classified, a clip around
// the midpoint is transcribed, and the chat service writes a short activity
// summary. The summary, transcript and labels are reduced to keywords held
// in an inverted index, and the labels are also indexed on their own.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/media"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/vocab"
)

const (
	// IndexName identifies the index in progress reports and checkpoints.
	IndexName = "activity"

	// DefaultConcurrency is the number of videos analyzed at once.
	DefaultConcurrency = 3

	// DefaultTranscriptWindow is the length in seconds of the transcribed clip.
	DefaultTranscriptWindow = 30.0

	persistInterval = 10
)

// Index is the video activity index. Builds and clears are serialized by
// buildMu; mu guards the records and inverted maps.
type Index struct {
	assets      storage.AssetRepository
	blobs       storage.BlobStore
	classifier  ai.VisualClassifier
	transcriber ai.SpeechTranscriber
	chat        ai.ChatService
	decoder     media.Decoder
	pool        *ants.Pool

	concurrency      int
	transcriptWindow float64
	minConfidence    float64
	maxLabels        int
	logger           *slog.Logger

	buildMu sync.Mutex

	mu          sync.RWMutex
	records     map[core.AssetID]*core.ActivityRecord
	keywords    map[string]core.IDSet
	videoLabels map[string]core.IDSet
	indexed     core.IDSet

	tracker atomic.Pointer[indexing.Tracker]
}

// Option configures an Index.
type Option func(*Index) error

// WithConcurrency sets how many videos are analyzed at once.
func WithConcurrency(n int) Option {
	return func(idx *Index) error {
		if n < 1 {
			n = 1
		}
		idx.concurrency = n
		return nil
	}
}

// WithTranscriber enables audio transcription.
func WithTranscriber(t ai.SpeechTranscriber) Option {
	return func(idx *Index) error {
		idx.transcriber = t
		return nil
	}
}

// WithChatService enables chat summaries and search refinement.
func WithChatService(chat ai.ChatService) Option {
	return func(idx *Index) error {
		idx.chat = chat
		return nil
	}
}

// WithTranscriptWindow sets the length of the transcribed clip in seconds.
func WithTranscriptWindow(seconds float64) Option {
	return func(idx *Index) error {
		if seconds <= 0 {
			return fmt.Errorf("transcript window must be positive, got %v", seconds)
		}
		idx.transcriptWindow = seconds
		return nil
	}
}

// WithMinConfidence sets the per-frame label confidence threshold.
func WithMinConfidence(c float64) Option {
	return func(idx *Index) error {
		if c < 0 || c > 1 {
			return fmt.Errorf("min confidence %v out of range", c)
		}
		idx.minConfidence = c
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
// Without a transcriber videos are indexed without transcripts; without a
// chat service summaries are synthesized and searches are not refined.
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
		assets:           assets,
		blobs:            blobs,
		classifier:       classifier,
		decoder:          decoder,
		concurrency:      DefaultConcurrency,
		transcriptWindow: DefaultTranscriptWindow,
		minConfidence:    labelindex.DefaultMinConfidence,
		maxLabels:        labelindex.DefaultMaxLabels,
		logger:           slog.Default().With("component", "activity"),
	}
	for _, opt := range opts {
		if err := opt(idx); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(idx.concurrency)
	if err != nil {
		return nil, err
	}
	idx.pool = pool
	idx.reset()

	if err := idx.load(ctx); err != nil {
		idx.logger.Warn("discarding activity snapshot", "err", err)
		idx.reset()
	}
	return idx, nil
}

// Release stops the worker pool. The index must not be built afterwards.
func (idx *Index) Release() {
	if idx.pool != nil {
		idx.pool.Release()
	}
}

func (idx *Index) reset() {
	idx.records = make(map[core.AssetID]*core.ActivityRecord)
	idx.keywords = make(map[string]core.IDSet)
	idx.videoLabels = make(map[string]core.IDSet)
	idx.indexed = core.NewIDSet()
}

func (idx *Index) load(ctx context.Context) error {
	data, err := indexing.LoadSnapshot(ctx, idx.blobs, storage.ActivitySnapshotKey)
	if err != nil || data == nil {
		return err
	}
	snap, err := storage.UnmarshalActivitySnapshot(data)
	if err != nil {
		return fmt.Errorf("%w: %w", core.ErrPersistenceFailure, err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.indexed.Add(snap.Indexed...)
	if snap.VocabVersion != vocab.Version {
		idx.logger.Info("re-extracting activity keywords", "snapshotVocab", snap.VocabVersion, "vocab", vocab.Version)
		for _, rec := range snap.Records {
			rec.Keywords = ExtractKeywords(rec.ActivitySummary, rec.Transcript(), rec.VisualLabels)
			idx.insert(rec)
		}
		return nil
	}

	for _, rec := range snap.Records {
		idx.records[rec.AssetID] = rec
	}
	for kw, ids := range snap.Keywords {
		idx.keywords[kw] = core.NewIDSet(ids...)
	}
	for label, ids := range snap.VideoLabels {
		idx.videoLabels[label] = core.NewIDSet(ids...)
	}
	return nil
}

func (idx *Index) snapshot() []byte {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	snap := &storage.ActivitySnapshot{
		VocabVersion: vocab.Version,
		Records:      make([]*core.ActivityRecord, 0, len(idx.records)),
		Keywords:     make(map[string][]core.AssetID, len(idx.keywords)),
		VideoLabels:  make(map[string][]core.AssetID, len(idx.videoLabels)),
		Indexed:      idx.indexed.Sorted(),
	}
	for _, rec := range idx.records {
		snap.Records = append(snap.Records, rec)
	}
	for kw, ids := range idx.keywords {
		snap.Keywords[kw] = ids.Sorted()
	}
	for label, ids := range idx.videoLabels {
		snap.VideoLabels[label] = ids.Sorted()
	}
	return storage.MarshalActivitySnapshot(snap)
}

func (idx *Index) persist(ctx context.Context) error {
	if err := indexing.SaveSnapshot(ctx, idx.blobs, storage.ActivitySnapshotKey, idx.snapshot()); err != nil {
		idx.logger.Error("failed to persist activity index", "err", err)
		return err
	}
	return nil
}

// insert stores a record and its keywords and labels. Caller must hold mu.
func (idx *Index) insert(rec *core.ActivityRecord) {
	idx.records[rec.AssetID] = rec
	for _, kw := range rec.Keywords {
		addTo(idx.keywords, kw, rec.AssetID)
	}
	for _, l := range rec.VisualLabels {
		if label := labelindex.Normalize(l); label != "" {
			addTo(idx.videoLabels, label, rec.AssetID)
		}
	}
}

func addTo(m map[string]core.IDSet, key string, id core.AssetID) {
	set, ok := m[key]
	if !ok {
		set = core.NewIDSet()
		m[key] = set
	}
	set.Add(id)
}

// Record returns the activity record of a video.
func (idx *Index) Record(id core.AssetID) (*core.ActivityRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.records[id]
	return rec, ok
}

// IsIndexed reports whether the video has been processed, including videos
// skipped as screen recordings.
func (idx *Index) IsIndexed(id core.AssetID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.indexed.Contains(id)
}

// Stats returns the number of records and distinct keywords.
func (idx *Index) Stats() (records, keywords int) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records), len(idx.keywords)
}

// Keywords returns every indexed keyword in lexical order.
func (idx *Index) Keywords() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.keywords))
	for kw := range idx.keywords {
		out = append(out, kw)
	}
	slices.Sort(out)
	return out
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

	return indexing.DeleteSnapshot(ctx, idx.blobs, storage.ActivitySnapshotKey)
}
