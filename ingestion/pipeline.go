package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/storage"
)

// DefaultBatchSize is the number of assets stored per transaction.
const DefaultBatchSize = 500

// Scanner turns media files into assets.
type Scanner interface {
	// Scan returns one asset per media file below root.
	Scan(ctx context.Context, root string) ([]*core.Asset, error)

	// Asset builds the asset for a single file.
	Asset(ctx context.Context, file string) (*core.Asset, error)

	// Matches reports whether a slash-separated path relative to a scan
	// root would be imported.
	Matches(rel string) bool
}

// Pipeline orchestrates imports into the Asset Store and the index builds
// that follow them. Background builds run on a worker pool and coalesce:
// requests made while a build runs trigger exactly one more build.
type Pipeline struct {
	assets      storage.AssetRepository
	scanner     Scanner
	indices     []Index
	checkpoints storage.CheckpointRepository
	pool        *ants.Pool
	batchSize   int
	logger      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
	dirty   bool
	pending sync.WaitGroup
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for background builds.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithCheckpoints records the last build of each index.
func WithCheckpoints(repo storage.CheckpointRepository) Option {
	return func(p *Pipeline) error {
		p.checkpoints = repo
		return nil
	}
}

// WithBatchSize sets how many assets are stored per transaction.
func WithBatchSize(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.batchSize = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline over the given indices.
func NewPipeline(assets storage.AssetRepository, scanner Scanner, indices []Index, opts ...Option) (*Pipeline, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if scanner == nil {
		return nil, ErrScannerRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pipeline{
		assets:    assets,
		scanner:   scanner,
		indices:   indices,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default().With("component", "ingestion"),
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// ImportResult summarizes an import.
type ImportResult struct {
	Scanned int
	Stored  int
	Elapsed time.Duration
}

// Import scans root and stores every asset found. Re-importing a file
// replaces its record. Indices are not built; call Build or Schedule.
func (p *Pipeline) Import(ctx context.Context, root string) (ImportResult, error) {
	start := time.Now()
	var result ImportResult

	assets, err := p.scanner.Scan(ctx, root)
	if err != nil {
		return result, err
	}
	result.Scanned = len(assets)

	result.Stored, err = p.store(ctx, assets)
	result.Elapsed = time.Since(start)
	if err != nil {
		return result, err
	}

	p.logger.Info("import complete",
		"root", root,
		"scanned", result.Scanned,
		"stored", result.Stored,
		"elapsed", result.Elapsed)
	return result, nil
}

func (p *Pipeline) store(ctx context.Context, assets []*core.Asset) (int, error) {
	stored := 0
	for start := 0; start < len(assets); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return stored, err
		}
		end := min(start+p.batchSize, len(assets))
		added, err := p.assets.AddAssets(ctx, assets[start:end]...)
		if err != nil {
			return stored, err
		}
		stored += len(added)
	}
	return stored, nil
}

// ImportFiles stores the assets for individual files. Files that cannot be
// read are logged and skipped.
func (p *Pipeline) ImportFiles(ctx context.Context, files ...string) (int, error) {
	assets := make([]*core.Asset, 0, len(files))
	for _, file := range files {
		asset, err := p.scanner.Asset(ctx, file)
		if err != nil {
			p.logger.Warn("skipping file", "path", file, "err", err)
			continue
		}
		assets = append(assets, asset)
	}
	return p.store(ctx, assets)
}

// RemoveFiles deletes the assets imported from files. Files that were never
// imported are ignored.
func (p *Pipeline) RemoveFiles(ctx context.Context, files ...string) (int, error) {
	removed := 0
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return removed, err
		}
		err = p.assets.DeleteAssets(ctx, core.IDFromContent(abs))
		switch {
		case errors.Is(err, storage.ErrNotFound):
			continue
		case err != nil:
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Schedule requests a background build of every index. It returns
// immediately; use Wait to block until scheduled builds finish.
func (p *Pipeline) Schedule() error {
	if p.ctx.Err() != nil {
		return ErrPipelineReleased
	}

	p.mu.Lock()
	if p.running {
		p.dirty = true
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.pending.Add(1)
	p.mu.Unlock()

	if err := p.pool.Submit(p.buildLoop); err != nil {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.pending.Done()
		return err
	}
	return nil
}

func (p *Pipeline) buildLoop() {
	defer p.pending.Done()
	for {
		if _, err := p.Build(p.ctx); err != nil {
			p.logger.Error("background build failed", "err", err)
		}

		p.mu.Lock()
		if !p.dirty || p.ctx.Err() != nil {
			p.running = false
			p.dirty = false
			p.mu.Unlock()
			return
		}
		p.dirty = false
		p.mu.Unlock()
	}
}

// Wait blocks until every scheduled build has finished.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release cancels background builds and releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	p.cancel()
	p.pending.Wait()
	if p.pool != nil {
		p.pool.Release()
	}
}
