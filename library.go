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


// Package glimpse is a local media library with natural-language search.
//
// A Library stores asset metadata in BadgerDB, keeps a spatial index, a
// visual label index and a video activity index over it, and answers
// requests such as "beach photos from Crete last summer" by intersecting
// the filters each index contributes.
//
//	lib, err := glimpse.Open(ctx, "~/.local/share/glimpse")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer lib.Close()
//
//	_, err = lib.Import(ctx, "/photos")
//	_, err = lib.BuildAll(ctx)
//	assets, err := lib.Search(ctx, "videos of the kids jumping rope")
package glimpse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/poiesic/glimpse/activity"
	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/ai/nominatim"
	"github.com/poiesic/glimpse/ai/openai"
	"github.com/poiesic/glimpse/config"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/geoindex"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/ingestion"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/media"
	"github.com/poiesic/glimpse/query"
	"github.com/poiesic/glimpse/search"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/storage/badger"
)

// IndexNames lists the indices in build order.
var IndexNames = []string{geoindex.IndexName, labelindex.IndexName, activity.IndexName}

// ErrUnknownIndex is returned for an index name not in IndexNames.
var ErrUnknownIndex = errors.New("unknown index")

// Library wires storage, AI services, the indices, the query parser and
// the search orchestrator together.
type Library struct {
	backend     *badger.Backend
	assets      storage.AssetRepository
	blobs       storage.BlobStore
	checkpoints storage.CheckpointRepository
	provider    ai.AIProvider
	ownProvider bool

	geo      *geoindex.Index
	labels   *labelindex.Index
	activity *activity.Index
	parser   *query.Parser
	searcher *search.Searcher
	pipeline *ingestion.Pipeline
	logger   *slog.Logger
}

// Option configures a Library.
type Option func(*options) error

type options struct {
	inMemory     bool
	aiConfig     *ai.Config
	provider     ai.AIProvider
	decoder      media.Decoder
	geocoder     ai.Geocoder
	nominatim    []nominatim.Option
	transcribe   bool
	scannerOpts  []media.ScannerOption
	geoOpts      []geoindex.Option
	labelOpts    []labelindex.Option
	activityOpts []activity.Option
	searchOpts   []search.Option
	pipelineOpts []ingestion.Option
	logger       *slog.Logger
}

// WithAIConfig sets the configuration of the OpenAI-compatible services.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.aiConfig = cfg
		return nil
	}
}

// WithProvider replaces the AI provider. The library does not close it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) error {
		o.provider = provider
		return nil
	}
}

// WithDecoder replaces the ffmpeg media decoder.
func WithDecoder(decoder media.Decoder) Option {
	return func(o *options) error {
		o.decoder = decoder
		return nil
	}
}

// WithGeocoder replaces the Nominatim geocoder.
func WithGeocoder(geocoder ai.Geocoder) Option {
	return func(o *options) error {
		o.geocoder = geocoder
		return nil
	}
}

// WithTranscription enables or disables video audio transcription.
// Default is enabled.
func WithTranscription(enabled bool) Option {
	return func(o *options) error {
		o.transcribe = enabled
		return nil
	}
}

// WithInMemory keeps everything in memory; the path passed to Open is ignored.
func WithInMemory() Option {
	return func(o *options) error {
		o.inMemory = true
		return nil
	}
}

// WithScannerOptions configures the filesystem scanner.
func WithScannerOptions(opts ...media.ScannerOption) Option {
	return func(o *options) error {
		o.scannerOpts = append(o.scannerOpts, opts...)
		return nil
	}
}

// WithGeoOptions configures the spatial index.
func WithGeoOptions(opts ...geoindex.Option) Option {
	return func(o *options) error {
		o.geoOpts = append(o.geoOpts, opts...)
		return nil
	}
}

// WithActivityOptions configures the activity index.
func WithActivityOptions(opts ...activity.Option) Option {
	return func(o *options) error {
		o.activityOpts = append(o.activityOpts, opts...)
		return nil
	}
}

// WithSearchOptions configures the search orchestrator.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) error {
		o.searchOpts = append(o.searchOpts, opts...)
		return nil
	}
}

// WithPipelineOptions configures the ingestion pipeline.
func WithPipelineOptions(opts ...ingestion.Option) Option {
	return func(o *options) error {
		o.pipelineOpts = append(o.pipelineOpts, opts...)
		return nil
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// FromConfig applies a loaded configuration file.
func FromConfig(cfg *config.Config) Option {
	return func(o *options) error {
		o.aiConfig = cfg.AIConfig()
		o.transcribe = cfg.AI.Transcribe
		o.nominatim = append(o.nominatim,
			nominatim.WithBaseURL(cfg.Geocoder.BaseURL),
			nominatim.WithUserAgent(cfg.Geocoder.UserAgent),
			nominatim.WithRateLimit(cfg.Geocoder.RateLimit))
		if len(cfg.Library.Include) > 0 {
			o.scannerOpts = append(o.scannerOpts, media.WithInclude(cfg.Library.Include...))
		}
		if len(cfg.Library.Exclude) > 0 {
			o.scannerOpts = append(o.scannerOpts, media.WithExclude(cfg.Library.Exclude...))
		}
		o.geoOpts = append(o.geoOpts, geoindex.WithPrecision(cfg.Index.GeohashPrecision))
		o.labelOpts = append(o.labelOpts,
			labelindex.WithMinConfidence(cfg.AI.MinConfidence),
			labelindex.WithMaxLabels(cfg.AI.MaxLabels))
		o.activityOpts = append(o.activityOpts,
			activity.WithConcurrency(cfg.Index.ActivityConcurrency),
			activity.WithTranscriptWindow(cfg.Index.TranscriptWindow),
			activity.WithMinConfidence(cfg.AI.MinConfidence))
		o.searchOpts = append(o.searchOpts,
			search.WithRadius(cfg.Search.RadiusKm),
			search.WithLabelSkipThreshold(cfg.Search.LabelSkipThreshold),
			search.WithDefaultLimit(cfg.Search.DefaultLimit),
			search.WithMaxGapDays(cfg.Search.MaxGapDays),
			search.WithActivityLLM(cfg.Search.ActivityLLM))
		return nil
	}
}

// Open opens or creates the library stored at path and hydrates every
// index from its snapshot.
func Open(ctx context.Context, path string, opts ...Option) (*Library, error) {
	o := &options{
		aiConfig:   ai.DefaultConfig(),
		transcribe: true,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	backend, err := badger.OpenBackend(path, o.inMemory)
	if err != nil {
		return nil, err
	}
	assets, err := badger.NewAssetRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	lib := &Library{
		backend:     backend,
		assets:      assets,
		blobs:       badger.NewBlobStore(backend),
		checkpoints: badger.NewCheckpointRepository(backend),
		provider:    o.provider,
		logger:      o.logger,
	}
	if err := lib.wire(ctx, o); err != nil {
		lib.Close()
		return nil, err
	}
	return lib, nil
}

func (l *Library) wire(ctx context.Context, o *options) error {
	if l.provider == nil {
		provider, err := openai.NewProvider(o.aiConfig)
		if err != nil {
			return err
		}
		l.provider = provider
		l.ownProvider = true
	}
	chat := l.provider.Chat()

	decoder := o.decoder
	if decoder == nil {
		ffmpeg, err := media.NewFFmpeg(media.WithDecoderLogger(o.logger.With("component", "ffmpeg")))
		if err != nil {
			return err
		}
		decoder = ffmpeg
	}

	geocoder := o.geocoder
	if geocoder == nil {
		g, err := nominatim.NewGeocoder(append(o.nominatim, nominatim.WithLogger(o.logger.With("component", "nominatim")))...)
		if err != nil {
			return err
		}
		geocoder = g
	}

	var err error
	l.geo, err = geoindex.NewIndex(ctx, l.assets, l.blobs, append([]geoindex.Option{
		geoindex.WithGeocoder(geocoder),
		geoindex.WithChatService(chat),
		geoindex.WithLogger(o.logger.With("component", "geoindex")),
	}, o.geoOpts...)...)
	if err != nil {
		return err
	}

	l.labels, err = labelindex.NewIndex(ctx, l.assets, l.blobs, l.provider.Classifier(), decoder,
		append([]labelindex.Option{labelindex.WithLogger(o.logger.With("component", "labelindex"))}, o.labelOpts...)...)
	if err != nil {
		return err
	}

	activityOpts := []activity.Option{
		activity.WithChatService(chat),
		activity.WithLogger(o.logger.With("component", "activity")),
	}
	if o.transcribe {
		activityOpts = append(activityOpts, activity.WithTranscriber(l.provider.Transcriber()))
	}
	l.activity, err = activity.NewIndex(ctx, l.assets, l.blobs, l.provider.Classifier(), decoder,
		append(activityOpts, o.activityOpts...)...)
	if err != nil {
		return err
	}

	l.parser, err = query.NewParser(
		query.WithChatService(chat),
		query.WithLogger(o.logger.With("component", "query")))
	if err != nil {
		return err
	}

	l.searcher, err = search.NewSearcher(l.assets, l.parser, l.geo, l.labels, l.activity,
		append([]search.Option{search.WithLogger(o.logger.With("component", "search"))}, o.searchOpts...)...)
	if err != nil {
		return err
	}

	scannerOpts := []media.ScannerOption{media.WithScannerLogger(o.logger.With("component", "scanner"))}
	if prober, ok := decoder.(media.Prober); ok {
		scannerOpts = append(scannerOpts, media.WithProber(prober))
	}
	scanner, err := media.NewScanner(append(scannerOpts, o.scannerOpts...)...)
	if err != nil {
		return err
	}

	l.pipeline, err = ingestion.NewPipeline(l.assets, scanner, []ingestion.Index{l.geo, l.labels, l.activity},
		append([]ingestion.Option{
			ingestion.WithCheckpoints(l.checkpoints),
			ingestion.WithLogger(o.logger.With("component", "ingestion")),
		}, o.pipelineOpts...)...)
	return err
}

// Close releases the worker pools, the AI provider and the database.
func (l *Library) Close() error {
	if l.pipeline != nil {
		l.pipeline.Release()
	}
	if l.activity != nil {
		l.activity.Release()
	}
	if l.ownProvider && l.provider != nil {
		if err := l.provider.Close(); err != nil {
			l.logger.Error("error closing AI provider", "err", err)
		}
	}
	if err := l.assets.Close(); err != nil {
		l.logger.Error("error closing asset repository", "err", err)
		return err
	}
	if err := l.backend.Close(); err != nil {
		l.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Import scans root into the Asset Store. Indices are not built.
func (l *Library) Import(ctx context.Context, root string) (ingestion.ImportResult, error) {
	return l.pipeline.Import(ctx, root)
}

// BuildAll builds every index concurrently.
func (l *Library) BuildAll(ctx context.Context, opts ...indexing.BuildOption) ([]core.BuildStats, error) {
	return l.pipeline.Build(ctx, opts...)
}

// Build builds a single index by name.
func (l *Library) Build(ctx context.Context, name string, opts ...indexing.BuildOption) (core.BuildStats, error) {
	idx, err := l.index(name)
	if err != nil {
		return core.BuildStats{}, err
	}
	return l.pipeline.BuildIndex(ctx, idx, opts...)
}

type managedIndex interface {
	ingestion.Index
	Clear(ctx context.Context) error
	Progress() indexing.Progress
}

func (l *Library) index(name string) (managedIndex, error) {
	switch name {
	case geoindex.IndexName:
		return l.geo, nil
	case labelindex.IndexName:
		return l.labels, nil
	case activity.IndexName:
		return l.activity, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownIndex, name)
}

// Clear empties the named indices, or every index when none is named,
// and forgets their checkpoints. Stored assets are kept.
func (l *Library) Clear(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = IndexNames
	}
	for _, name := range names {
		idx, err := l.index(name)
		if err != nil {
			return err
		}
		if err := idx.Clear(ctx); err != nil {
			return fmt.Errorf("clearing %s: %w", name, err)
		}
		if err := l.checkpoints.DeleteCheckpoint(ctx, name); err != nil {
			return fmt.Errorf("clearing %s checkpoint: %w", name, err)
		}
		l.logger.Info("cleared index", "index", name)
	}
	return nil
}

// Watch imports new media below root until ctx is cancelled, building the
// indices after each batch of changes.
func (l *Library) Watch(ctx context.Context, root string, opts ...ingestion.WatcherOption) error {
	w, err := ingestion.NewWatcher(l.pipeline, root,
		append([]ingestion.WatcherOption{ingestion.WithWatcherLogger(l.logger.With("component", "watcher"))}, opts...)...)
	if err != nil {
		return err
	}
	if err := l.pipeline.Schedule(); err != nil {
		return err
	}
	err = w.Run(ctx)
	l.pipeline.Wait()
	return err
}

// Search answers a natural-language request with matching assets, newest first.
func (l *Library) Search(ctx context.Context, text string) ([]*core.Asset, error) {
	return l.SearchWithMonitor(ctx, text, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (l *Library) SearchWithMonitor(ctx context.Context, text string, monitor search.SearchMonitor) ([]*core.Asset, error) {
	ids, err := l.searcher.SearchWithMonitor(ctx, text, monitor)
	if err != nil {
		return nil, err
	}
	return l.assets.GetAssets(ctx, ids...)
}

// Parse returns the structured form of a request without running it.
func (l *Library) Parse(ctx context.Context, text string) *core.ParsedQuery {
	return l.parser.Parse(ctx, text)
}

// Progress reports the current or last build of every index.
func (l *Library) Progress() []indexing.Progress {
	out := make([]indexing.Progress, 0, len(IndexNames))
	for _, name := range IndexNames {
		idx, _ := l.index(name)
		out = append(out, idx.Progress())
	}
	return out
}

// IndexStats describes one index.
type IndexStats struct {
	Name       string
	Assets     int // assets with entries in the index
	Keys       int // cells, labels or keywords
	Checkpoint *core.Checkpoint
}

// Stats describes the library.
type Stats struct {
	Assets    int
	Indices   []IndexStats
	DiskBytes int64
}

// Stats collects sizes and the last build of every index.
func (l *Library) Stats(ctx context.Context) (*Stats, error) {
	count, err := l.assets.CountAssets(ctx)
	if err != nil {
		return nil, err
	}
	cps, err := ingestion.Checkpoints(ctx, l.checkpoints, IndexNames...)
	if err != nil {
		return nil, err
	}

	geoAssets, cells := l.geo.Stats()
	labelKeys, labelAssets := l.labels.Stats()
	records, keywords := l.activity.Stats()
	stats := &Stats{
		Assets: count,
		Indices: []IndexStats{
			{Name: geoindex.IndexName, Assets: geoAssets, Keys: cells},
			{Name: labelindex.IndexName, Assets: labelAssets, Keys: labelKeys},
			{Name: activity.IndexName, Assets: records, Keys: keywords},
		},
	}
	for i := range stats.Indices {
		j := slices.IndexFunc(cps, func(cp *core.Checkpoint) bool { return cp.Index == stats.Indices[i].Name })
		if j >= 0 {
			stats.Indices[i].Checkpoint = cps[j]
		}
	}
	lsm, vlog := l.backend.Size()
	stats.DiskBytes = lsm + vlog
	return stats, nil
}

// Assets returns the Asset Store.
func (l *Library) Assets() storage.AssetRepository {
	return l.assets
}

// Pipeline returns the ingestion pipeline.
func (l *Library) Pipeline() *ingestion.Pipeline {
	return l.pipeline
}
