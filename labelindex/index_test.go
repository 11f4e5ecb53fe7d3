package labelindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/glimpse/ai"
	aimock "github.com/poiesic/glimpse/ai/mock"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	mediamock "github.com/poiesic/glimpse/media/mock"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo       storage.AssetRepository
	blobs      storage.BlobStore
	classifier *aimock.MockClassifier
	decoder    *mediamock.MockDecoder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, blobs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	f := &fixture{
		repo:       repo,
		blobs:      blobs,
		classifier: aimock.NewMockClassifier(),
		decoder:    mediamock.NewMockDecoder(),
	}

	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	_, err = repo.AddAssets(context.Background(),
		&core.Asset{ID: "p1", CreatedAt: base, MediaType: core.MediaTypePhoto},
		&core.Asset{ID: "p2", CreatedAt: base.Add(time.Hour), MediaType: core.MediaTypePhoto},
		&core.Asset{ID: "p3", CreatedAt: base.Add(2 * time.Hour), MediaType: core.MediaTypePhoto},
		&core.Asset{ID: "v1", CreatedAt: base.Add(3 * time.Hour), MediaType: core.MediaTypeVideo, DurationSeconds: 10},
	)
	require.NoError(t, err)

	f.classifier.SetLabels(mediamock.ThumbnailData("p1"),
		ai.Label{Name: "Seashore", Confidence: 0.9},
		ai.Label{Name: "sky", Confidence: 0.8},
		ai.Label{Name: "umbrella", Confidence: 0.3})
	f.classifier.SetLabels(mediamock.ThumbnailData("p2"),
		ai.Label{Name: "dog", Confidence: 0.95},
		ai.Label{Name: "ocean", Confidence: 0.7})
	f.classifier.SetLabels(mediamock.ThumbnailData("p3"),
		ai.Label{Name: "cake", Confidence: 0.6})
	return f
}

func (f *fixture) index(t *testing.T, opts ...Option) *Index {
	t.Helper()
	idx, err := NewIndex(context.Background(), f.repo, f.blobs, f.classifier, f.decoder, opts...)
	require.NoError(t, err)
	return idx
}

func TestNewIndex_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := NewIndex(ctx, nil, f.blobs, f.classifier, f.decoder)
	assert.ErrorIs(t, err, ErrAssetRepositoryRequired)
	_, err = NewIndex(ctx, f.repo, nil, f.classifier, f.decoder)
	assert.ErrorIs(t, err, ErrBlobStoreRequired)
	_, err = NewIndex(ctx, f.repo, f.blobs, nil, f.decoder)
	assert.ErrorIs(t, err, ErrClassifierRequired)
	_, err = NewIndex(ctx, f.repo, f.blobs, f.classifier, nil)
	assert.ErrorIs(t, err, ErrDecoderRequired)
	_, err = NewIndex(ctx, f.repo, f.blobs, f.classifier, f.decoder, WithMaxLabels(0))
	assert.Error(t, err)
	_, err = NewIndex(ctx, f.repo, f.blobs, f.classifier, f.decoder, WithMinConfidence(1.5))
	assert.Error(t, err)
}

func TestBuildIndex(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)

	stats, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Eligible)
	assert.Equal(t, 3, stats.NewlyIndexed)
	assert.Equal(t, 0, stats.Failed)
	assert.Equal(t, 3, f.classifier.CallCount(), "videos are not classified")

	assert.Equal(t, []core.AssetID{"p1", "p2"}, idx.Search("beach"))
	assert.Equal(t, []core.AssetID{"p1", "p2"}, idx.Search("Ocean"), "queries are normalized")
	assert.Empty(t, idx.Search("umbrella"), "labels below the threshold are dropped")
	assert.Equal(t, []string{"Seashore", "sky"}, idx.LabelsFor("p1"))

	labels, assets := idx.Stats()
	assert.Equal(t, 4, labels) // beach, sky, dog, cake
	assert.Equal(t, 3, assets)
	assert.Equal(t, labels, stats.UniqueKeys)
}

func TestBuildIndex_Idempotent(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)

	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)
	before := idx.snapshot()

	stats, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.NewlyIndexed)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 3, f.classifier.CallCount())
	assert.Equal(t, before, idx.snapshot())
}

func TestBuildIndex_MaxLabels(t *testing.T) {
	f := newFixture(t)
	f.classifier.SetLabels(mediamock.ThumbnailData("p3"),
		ai.Label{Name: "a", Confidence: 0.5},
		ai.Label{Name: "b", Confidence: 0.9},
		ai.Label{Name: "c", Confidence: 0.7})
	idx := f.index(t, WithMaxLabels(2))

	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, idx.LabelsFor("p3"))
}

func TestBuildIndex_Limit(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)

	stats, err := idx.BuildIndex(context.Background(), indexing.WithLimit(1))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewlyIndexed)
	assert.True(t, idx.IsIndexed("p1"))
	assert.False(t, idx.IsIndexed("p2"))
}

func TestBuildIndex_FailuresAreRetried(t *testing.T) {
	f := newFixture(t)
	fail := true
	f.classifier.WithClassifyFunc(func(ctx context.Context, img ai.Image) ([]ai.Label, error) {
		if fail && string(img.Data) == mediamock.ThumbnailData("p2") {
			return nil, errors.New("vision model timeout")
		}
		return []ai.Label{{Name: "thing", Confidence: 0.9}}, nil
	})
	idx := f.index(t)

	stats, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.NewlyIndexed)
	assert.Equal(t, 1, stats.Failed)
	assert.False(t, idx.IsIndexed("p2"))

	fail = false
	stats, err = idx.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.NewlyIndexed)
	assert.True(t, idx.IsIndexed("p2"))
}

func TestBuildIndex_ThumbnailFailure(t *testing.T) {
	f := newFixture(t)
	f.decoder.ThumbnailFunc = func(ctx context.Context, asset *core.Asset) (ai.Image, error) {
		return ai.Image{}, errors.New("corrupt file")
	}
	idx := f.index(t)

	stats, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Failed)
	assert.Zero(t, f.classifier.CallCount())
}

func TestBuildIndex_CancelKeepsProgress(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.classifier.WithClassifyFunc(func(_ context.Context, img ai.Image) ([]ai.Label, error) {
		cancel()
		return []ai.Label{{Name: "beach", Confidence: 0.9}}, nil
	})
	idx := f.index(t)

	stats, err := idx.BuildIndex(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	assert.Equal(t, 1, stats.NewlyIndexed)

	reloaded := f.index(t)
	assert.True(t, reloaded.IsIndexed("p1"), "the final snapshot survives cancellation")
	assert.Equal(t, []core.AssetID{"p1"}, reloaded.Search("beach"))
}

func TestSearchAll(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)
	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []core.AssetID{"p1", "p2", "p3"}, idx.SearchAll([]string{"beach", "cake"}, MatchAny))
	assert.Equal(t, []core.AssetID{"p2"}, idx.SearchAll([]string{"beach", "dog"}, MatchAll))
	assert.Empty(t, idx.SearchAll([]string{"beach", "giraffe"}, MatchAll))
	assert.Empty(t, idx.SearchAll([]string{"unknownlabel"}, MatchAll))
	assert.Empty(t, idx.SearchAll(nil, MatchAny))
}

func TestHydrate(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)
	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)

	reloaded := f.index(t)
	assert.Equal(t, idx.snapshot(), reloaded.snapshot())
	assert.Equal(t, []core.AssetID{"p1", "p2"}, reloaded.Search("beach"))
}

func TestHydrate_RenormalizesOldVocabulary(t *testing.T) {
	f := newFixture(t)
	snap := &storage.LabelSnapshot{
		VocabVersion: 0,
		Labels:       map[string][]core.AssetID{"seashore": {"p1"}},
		AssetLabels:  map[core.AssetID][]string{"p1": {"Seashore"}},
		Indexed:      []core.AssetID{"p1"},
	}
	require.NoError(t, f.blobs.Put(context.Background(), storage.LabelSnapshotKey, storage.MarshalLabelSnapshot(snap)))

	idx := f.index(t)
	assert.Equal(t, []core.AssetID{"p1"}, idx.Search("beach"))
	assert.Equal(t, []string{"beach"}, idx.TopLabels(0))
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)
	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)

	require.NoError(t, idx.Clear(context.Background()))
	labels, assets := idx.Stats()
	assert.Zero(t, labels)
	assert.Zero(t, assets)

	_, err = f.blobs.Get(context.Background(), storage.LabelSnapshotKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTopLabels(t *testing.T) {
	f := newFixture(t)
	idx := f.index(t)
	_, err := idx.BuildIndex(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"beach", "cake"}, idx.TopLabels(2))
}
