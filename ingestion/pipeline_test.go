package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/media"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIndex counts builds and reports how many assets it has seen.
type fakeIndex struct {
	name   string
	assets storage.AssetRepository
	err    error
	gate   chan struct{}

	mu     sync.Mutex
	seen   core.IDSet
	builds atomic.Int32
}

func newFakeIndex(name string, assets storage.AssetRepository) *fakeIndex {
	return &fakeIndex{name: name, assets: assets, seen: core.NewIDSet()}
}

func (f *fakeIndex) BuildIndex(ctx context.Context, opts ...indexing.BuildOption) (core.BuildStats, error) {
	f.builds.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	stats := core.BuildStats{Index: f.name}
	if f.err != nil {
		return stats, f.err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.assets.ForEachAsset(ctx, func(a *core.Asset) error {
		stats.Total++
		if f.seen.Contains(a.ID) {
			stats.Skipped++
			return nil
		}
		f.seen.Add(a.ID)
		stats.NewlyIndexed++
		return nil
	})
	return stats, err
}

type testEnv struct {
	repo        storage.AssetRepository
	checkpoints storage.CheckpointRepository
	scanner     *media.Scanner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	scanner, err := media.NewScanner()
	require.NoError(t, err)

	return &testEnv{
		repo:        repo,
		checkpoints: badger.NewCheckpointRepository(backend),
		scanner:     scanner,
	}
}

func (e *testEnv) pipeline(t *testing.T, indices []Index, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(e.repo, e.scanner, indices, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("not really media"), 0o644))
	}
}

func count(t *testing.T, repo storage.AssetRepository) int {
	t.Helper()
	n, err := repo.CountAssets(context.Background())
	require.NoError(t, err)
	return n
}

func TestNewPipeline(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(env.repo, env.scanner, nil, WithPoolSize(2), WithBatchSize(10), WithLogger(nil))
		require.NoError(t, err)
		defer p.Release()
		assert.Equal(t, 10, p.batchSize)
		assert.Equal(t, 2, p.pool.Cap())
		assert.NotNil(t, p.logger)
	})

	t.Run("nil asset repository", func(t *testing.T) {
		_, err := NewPipeline(nil, env.scanner, nil)
		assert.Equal(t, ErrAssetRepositoryRequired, err)
	})

	t.Run("nil scanner", func(t *testing.T) {
		_, err := NewPipeline(env.repo, nil, nil)
		assert.Equal(t, ErrScannerRequired, err)
	})
}

func TestPipeline_Import(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.mp4", "sub/c.png", ".hidden/d.jpg", "notes.txt")

	p := env.pipeline(t, nil, WithBatchSize(2))
	result, err := p.Import(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 3, result.Stored)
	assert.Equal(t, 3, count(t, env.repo))

	// Re-importing replaces records instead of duplicating them.
	_, err = p.Import(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, count(t, env.repo))

	asset, err := env.repo.GetAsset(context.Background(), core.IDFromContent(filepath.Join(root, "b.mp4")))
	require.NoError(t, err)
	assert.Equal(t, core.MediaTypeVideo, asset.MediaType)
}

func TestPipeline_ImportCancelled(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeFiles(t, root, "a.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := env.pipeline(t, nil).Import(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, count(t, env.repo))
}

func TestPipeline_ImportAndRemoveFiles(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.mov")
	p := env.pipeline(t, nil)

	a := filepath.Join(root, "a.jpg")
	b := filepath.Join(root, "b.mov")
	n, err := p.ImportFiles(context.Background(), a, b, filepath.Join(root, "missing.jpg"), filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = p.RemoveFiles(context.Background(), a, filepath.Join(root, "never-imported.jpg"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, count(t, env.repo))
}

func TestPipeline_Build(t *testing.T) {
	env := newTestEnv(t)
	root := t.TempDir()
	writeFiles(t, root, "a.jpg", "b.jpg")

	geo := newFakeIndex("geo", env.repo)
	labels := newFakeIndex("labels", env.repo)
	p := env.pipeline(t, []Index{geo, labels}, WithCheckpoints(env.checkpoints))

	_, err := p.Import(context.Background(), root)
	require.NoError(t, err)

	stats, err := p.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "geo", stats[0].Index)
	assert.Equal(t, "labels", stats[1].Index)
	assert.Equal(t, 2, stats[0].NewlyIndexed)

	stats, err = p.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats[0].NewlyIndexed)
	assert.Equal(t, 2, stats[0].Skipped)

	cps, err := Checkpoints(context.Background(), env.checkpoints, "geo", "labels", "activity")
	require.NoError(t, err)
	require.Len(t, cps, 2)
	assert.Equal(t, "geo", cps[0].Index)
	assert.Equal(t, 2, cps[0].IndexedSize)
	assert.False(t, cps[0].UpdatedAt.IsZero())
}

func TestPipeline_BuildFailureDoesNotStopOthers(t *testing.T) {
	env := newTestEnv(t)
	broken := newFakeIndex("activity", env.repo)
	broken.err = errors.New("classifier offline")
	geo := newFakeIndex("geo", env.repo)

	p := env.pipeline(t, []Index{broken, geo}, WithCheckpoints(env.checkpoints))
	_, err := env.repo.AddAssets(context.Background(), &core.Asset{ID: "x", CreatedAt: time.Now(), MediaType: core.MediaTypePhoto})
	require.NoError(t, err)

	stats, err := p.Build(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "classifier offline")
	assert.Contains(t, err.Error(), "activity index")
	assert.Equal(t, 1, stats[1].NewlyIndexed)

	cp, err := env.checkpoints.LoadCheckpoint(context.Background(), "activity")
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestPipeline_ScheduleCoalesces(t *testing.T) {
	env := newTestEnv(t)
	idx := newFakeIndex("geo", env.repo)
	idx.gate = make(chan struct{})
	p := env.pipeline(t, []Index{idx})

	require.NoError(t, p.Schedule())
	require.NoError(t, p.Schedule())
	require.NoError(t, p.Schedule())
	close(idx.gate)
	p.Wait()

	assert.Equal(t, int32(2), idx.builds.Load())

	require.NoError(t, p.Schedule())
	p.Wait()
	assert.Equal(t, int32(3), idx.builds.Load())
}

func TestPipeline_ScheduleAfterRelease(t *testing.T) {
	env := newTestEnv(t)
	p, err := NewPipeline(env.repo, env.scanner, nil)
	require.NoError(t, err)
	p.Release()

	assert.ErrorIs(t, p.Schedule(), ErrPipelineReleased)
}
