package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/glimpse/ai/mock"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/geoindex"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/storage"
	"github.com/poiesic/glimpse/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	athens = core.Coordinate{Latitude: 37.9838, Longitude: 23.7275}
	paris  = core.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
)

type stubParser struct {
	query *core.ParsedQuery
	texts []string
}

func (p *stubParser) Parse(_ context.Context, text string) *core.ParsedQuery {
	p.texts = append(p.texts, text)
	q := *p.query
	q.RawTerms = text
	return &q
}

type stubGeo struct {
	places map[string][]core.AssetID
	err    error
	calls  []string
}

func (g *stubGeo) Search(ctx context.Context, placeName string, _ float64) ([]core.AssetID, error) {
	g.calls = append(g.calls, placeName)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.err != nil {
		return nil, g.err
	}
	ids, ok := g.places[placeName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrLocationNotFound, placeName)
	}
	return ids, nil
}

type stubLabels struct {
	labels map[string][]core.AssetID
	calls  [][]string
}

func (l *stubLabels) SearchAll(labels []string, _ labelindex.MatchMode) []core.AssetID {
	l.calls = append(l.calls, labels)
	matches := core.NewIDSet()
	for _, label := range labels {
		matches.Add(l.labels[label]...)
	}
	return matches.Sorted()
}

type stubActivity struct {
	activities map[string][]core.AssetID
	labels     map[string][]core.AssetID
	llm        []core.AssetID
	searched   []string
	llmCalls   []string
}

func (a *stubActivity) Search(_ context.Context, activity string) ([]core.AssetID, error) {
	a.searched = append(a.searched, activity)
	return a.activities[activity], nil
}

func (a *stubActivity) SearchWithLLM(_ context.Context, rawQuery, _ string) ([]core.AssetID, error) {
	a.llmCalls = append(a.llmCalls, rawQuery)
	return a.llm, nil
}

func (a *stubActivity) SearchLabels(labels []string) []core.AssetID {
	matches := core.NewIDSet()
	for _, label := range labels {
		matches.Add(a.labels[label]...)
	}
	return matches.Sorted()
}

type event struct {
	kind  string
	stage Stage
	count int
}

type recordingMonitor struct {
	mu       sync.Mutex
	searchID string
	query    string
	parsed   *core.ParsedQuery
	events   []event
	reasons  map[Stage]string
	finished []core.AssetID
}

func (m *recordingMonitor) Start(searchID, query string) {
	m.searchID = searchID
	m.query = query
}

func (m *recordingMonitor) AfterParse(q *core.ParsedQuery) { m.parsed = q }

func (m *recordingMonitor) BeforeStage(stage Stage, c Candidates) {
	m.add(event{"before", stage, c.Len()})
}

func (m *recordingMonitor) AfterStage(stage Stage, c Candidates) {
	m.add(event{"after", stage, c.Len()})
}

func (m *recordingMonitor) SkippedStage(stage Stage, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reasons == nil {
		m.reasons = make(map[Stage]string)
	}
	m.reasons[stage] = reason
	m.events = append(m.events, event{kind: "skip", stage: stage})
}

func (m *recordingMonitor) Finish(ids []core.AssetID) { m.finished = ids }

func (m *recordingMonitor) add(e event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
}

func (m *recordingMonitor) ran() []Stage {
	var stages []Stage
	for _, e := range m.events {
		if e.kind == "after" {
			stages = append(stages, e.stage)
		}
	}
	return stages
}

func (m *recordingMonitor) skipped() []Stage {
	var stages []Stage
	for _, e := range m.events {
		if e.kind == "skip" {
			stages = append(stages, e.stage)
		}
	}
	return stages
}

var day0 = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func photo(id string, daysOffset int, loc *core.Coordinate) *core.Asset {
	return &core.Asset{
		ID:        core.AssetID(id),
		CreatedAt: day0.AddDate(0, 0, daysOffset),
		Location:  loc,
		MediaType: core.MediaTypePhoto,
	}
}

func video(id string, daysOffset int, loc *core.Coordinate) *core.Asset {
	a := photo(id, daysOffset, loc)
	a.MediaType = core.MediaTypeVideo
	a.DurationSeconds = 12
	return a
}

type fixture struct {
	repo     storage.AssetRepository
	blobs    storage.BlobStore
	geo      *stubGeo
	labels   *stubLabels
	activity *stubActivity
}

// newFixture seeds a small library:
//
//	a1 photo  Athens   day 9   beach
//	a2 photo  Athens   day 10  dog, Alice
//	a3 photo  Paris    day -400 tower
//	a4 photo  none     day -170 beach, selfie
//	v1 video  Athens   day 11  jump rope
//	v2 video  none     day -150 guitar
func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, blobs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	a2 := photo("a2", 10, &athens)
	a2.People = []string{"Alice"}
	a4 := photo("a4", -170, nil)
	a4.IsSelfie = true
	_, err = repo.AddAssets(context.Background(),
		photo("a1", 9, &athens),
		a2,
		photo("a3", -400, &paris),
		a4,
		video("v1", 11, &athens),
		video("v2", -150, nil),
	)
	require.NoError(t, err)

	return &fixture{
		repo:  repo,
		blobs: blobs,
		geo: &stubGeo{places: map[string][]core.AssetID{
			"Athens": {"a1", "a2", "v1"},
			"Paris":  {"a3"},
		}},
		labels: &stubLabels{labels: map[string][]core.AssetID{
			"beach": {"a1", "a4"},
			"dog":   {"a2"},
			"tower": {"a3"},
		}},
		activity: &stubActivity{
			activities: map[string][]core.AssetID{"jump rope": {"v1"}},
			labels:     map[string][]core.AssetID{"guitar": {"v2"}},
		},
	}
}

func (f *fixture) searcher(t *testing.T, opts ...Option) *Searcher {
	t.Helper()
	s, err := NewSearcher(f.repo, &stubParser{query: &core.ParsedQuery{}}, f.geo, f.labels, f.activity, opts...)
	require.NoError(t, err)
	return s
}

func (f *fixture) run(t *testing.T, q *core.ParsedQuery, opts ...Option) ([]core.AssetID, *recordingMonitor) {
	t.Helper()
	monitor := &recordingMonitor{}
	ids, err := f.searcher(t, opts...).SearchParsed(context.Background(), q, monitor)
	require.NoError(t, err)
	return ids, monitor
}

func TestNewSearcher(t *testing.T) {
	f := newFixture(t)
	parser := &stubParser{query: &core.ParsedQuery{}}

	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewSearcher(f.repo, parser, f.geo, f.labels, f.activity)
		require.NoError(t, err)
		assert.Equal(t, DefaultLimit, s.defaultLimit)
		assert.Equal(t, DefaultLabelSkipThreshold, s.labelSkipThreshold)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		s, err := NewSearcher(f.repo, parser, f.geo, f.labels, f.activity, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, s.logger)
	})

	t.Run("missing dependencies", func(t *testing.T) {
		_, err := NewSearcher(nil, parser, f.geo, f.labels, f.activity)
		assert.Equal(t, ErrAssetRepositoryRequired, err)
		_, err = NewSearcher(f.repo, nil, f.geo, f.labels, f.activity)
		assert.Equal(t, ErrParserRequired, err)
		_, err = NewSearcher(f.repo, parser, nil, f.labels, f.activity)
		assert.Equal(t, ErrGeoIndexRequired, err)
		_, err = NewSearcher(f.repo, parser, f.geo, nil, f.activity)
		assert.Equal(t, ErrLabelIndexRequired, err)
		_, err = NewSearcher(f.repo, parser, f.geo, f.labels, nil)
		assert.Equal(t, ErrActivityIndexRequired, err)
	})

	t.Run("invalid options", func(t *testing.T) {
		for _, opt := range []Option{
			WithLabelSkipThreshold(0),
			WithDefaultLimit(0),
			WithRadius(-1),
			WithMaxGapDays(0),
		} {
			_, err := NewSearcher(f.repo, parser, f.geo, f.labels, f.activity, opt)
			assert.ErrorIs(t, err, ErrInvalidOption)
		}
	})
}

func TestSearch_UsesParser(t *testing.T) {
	f := newFixture(t)
	parser := &stubParser{query: &core.ParsedQuery{Labels: []string{"dog"}, MediaType: core.MediaTypeAll}}
	s, err := NewSearcher(f.repo, parser, f.geo, f.labels, f.activity)
	require.NoError(t, err)

	ids, err := s.Search(context.Background(), "my dog")
	require.NoError(t, err)
	assert.Equal(t, []core.AssetID{"a2"}, ids)
	assert.Equal(t, []string{"my dog"}, parser.texts)
}

func TestSearch_Unconstrained(t *testing.T) {
	f := newFixture(t)

	ids, monitor := f.run(t, &core.ParsedQuery{MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"v1", "a2", "a1", "v2", "a4", "a3"}, ids)
	assert.Empty(t, monitor.ran())

	ids, _ = f.run(t, &core.ParsedQuery{MediaType: core.MediaTypeAll, Limit: 2})
	assert.Equal(t, []core.AssetID{"v1", "a2"}, ids)
}

func TestSearch_Location(t *testing.T) {
	f := newFixture(t)

	ids, monitor := f.run(t, &core.ParsedQuery{Location: "Athens", MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"v1", "a2", "a1"}, ids)
	assert.Equal(t, []Stage{StageLocation}, monitor.ran())
}

func TestSearch_LocationHintAppended(t *testing.T) {
	f := newFixture(t)
	f.geo.places["Athens, Greece"] = []core.AssetID{"a1"}

	ids, _ := f.run(t, &core.ParsedQuery{Location: "Athens", LocationHint: "Greece", MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"a1"}, ids)

	f.geo.calls = nil
	_, _ = f.run(t, &core.ParsedQuery{Location: "Athens, Greece", LocationHint: "greece", MediaType: core.MediaTypeAll})
	assert.Equal(t, []string{"Athens, Greece"}, f.geo.calls)
}

func TestSearch_UnknownLocationMatchesNothing(t *testing.T) {
	f := newFixture(t)

	ids, monitor := f.run(t, &core.ParsedQuery{
		Location:  "Atlantis",
		Labels:    []string{"beach"},
		MediaType: core.MediaTypePhoto,
	})
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Empty(t, monitor.finished)
	assert.Equal(t, []Stage{StageLocation}, monitor.ran())
	assert.Contains(t, monitor.skipped(), StageMediaType)
	assert.Empty(t, f.labels.calls)
}

func TestSearch_GeoFailureMatchesNothing(t *testing.T) {
	f := newFixture(t)
	f.geo.err = errors.New("geocoder down")

	ids, _ := f.run(t, &core.ParsedQuery{Location: "Athens", MediaType: core.MediaTypeAll})
	assert.Empty(t, ids)
}

func TestSearch_InferredLabelsSkippedAfterLocationMatch(t *testing.T) {
	f := newFixture(t)

	q := &core.ParsedQuery{RawTerms: "photos from Athens", Location: "Athens", Labels: []string{"beach"}, MediaType: core.MediaTypePhoto}
	ids, monitor := f.run(t, q)
	assert.Equal(t, []core.AssetID{"a2", "a1"}, ids)
	assert.Contains(t, monitor.skipped(), StageLabels)
	assert.Contains(t, monitor.reasons[StageLabels], "3")
	assert.Empty(t, f.labels.calls)

	ids, monitor = f.run(t, q, WithLabelSkipThreshold(5))
	assert.Equal(t, []core.AssetID{"a1"}, ids)
	assert.Equal(t, []Stage{StageLocation, StageLabels, StageMediaType}, monitor.ran())
}

func TestSearch_TypedLabelsKeptAfterLocationMatch(t *testing.T) {
	f := newFixture(t)

	q := &core.ParsedQuery{RawTerms: "beach photos from Athens", Location: "Athens", Labels: []string{"beach"}, MediaType: core.MediaTypePhoto}
	ids, monitor := f.run(t, q)
	assert.Equal(t, []core.AssetID{"a1"}, ids)
	assert.Equal(t, []Stage{StageLocation, StageLabels, StageMediaType}, monitor.ran())

	q = &core.ParsedQuery{RawTerms: "seaside dog photos from Athens", Location: "Athens", Labels: []string{"beach", "dog", "tower"}, MediaType: core.MediaTypePhoto}
	_, _ = f.run(t, q)
	require.NotEmpty(t, f.labels.calls)
	assert.Equal(t, []string{"beach", "dog"}, f.labels.calls[len(f.labels.calls)-1])
}

func TestSearch_LabelsIncludeVideoLabels(t *testing.T) {
	f := newFixture(t)

	ids, _ := f.run(t, &core.ParsedQuery{Labels: []string{"beach", "guitar"}, MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"a1", "v2", "a4"}, ids)

	ids, _ = f.run(t, &core.ParsedQuery{Labels: []string{"null", " "}, MediaType: core.MediaTypeAll})
	assert.Len(t, ids, 6, "absent labels leave the search unconstrained")
}

func TestSearch_Date(t *testing.T) {
	f := newFixture(t)

	period := &core.TimePeriod{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
	}
	ids, _ := f.run(t, &core.ParsedQuery{TimePeriod: period, MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"a3"}, ids)
}

func TestSearch_People(t *testing.T) {
	f := newFixture(t)

	ids, _ := f.run(t, &core.ParsedQuery{People: []string{"alice"}, MediaType: core.MediaTypeAll})
	assert.Equal(t, []core.AssetID{"a2"}, ids)

	ids, _ = f.run(t, &core.ParsedQuery{People: []string{"Bob"}, MediaType: core.MediaTypeAll})
	assert.Empty(t, ids)
}

func TestSearch_SelfPhotos(t *testing.T) {
	f := newFixture(t)

	ids, _ := f.run(t, &core.ParsedQuery{IsSelfPhotos: true, MediaType: core.MediaTypePhoto})
	assert.Equal(t, []core.AssetID{"a4"}, ids)

	ids, monitor := f.run(t, &core.ParsedQuery{
		Location:     "Paris",
		Labels:       []string{"dog"},
		IsSelfPhotos: true,
		MediaType:    core.MediaTypePhoto,
	}, WithLabelSkipThreshold(5))
	assert.Empty(t, ids)
	assert.Contains(t, monitor.skipped(), StageSelf)
}

func TestSearch_MediaType(t *testing.T) {
	f := newFixture(t)

	ids, _ := f.run(t, &core.ParsedQuery{MediaType: core.MediaTypeVideo})
	assert.Equal(t, []core.AssetID{"v1", "v2"}, ids)

	ids, _ = f.run(t, &core.ParsedQuery{Location: "Athens", MediaType: core.MediaTypePhoto})
	assert.Equal(t, []core.AssetID{"a2", "a1"}, ids)
}

func TestSearch_Activity(t *testing.T) {
	f := newFixture(t)

	ids, monitor := f.run(t, &core.ParsedQuery{Activity: " jump rope ", MediaType: core.MediaTypeVideo})
	assert.Equal(t, []core.AssetID{"v1"}, ids)
	assert.Equal(t, []string{"jump rope"}, f.activity.searched)
	assert.Equal(t, []Stage{StageMediaType, StageActivity}, monitor.ran())

	ids, monitor = f.run(t, &core.ParsedQuery{Activity: "jump rope", MediaType: core.MediaTypeAll})
	assert.Len(t, ids, 6)
	assert.Contains(t, monitor.skipped(), StageActivity)
	assert.Len(t, f.activity.searched, 1)
}

func TestSearch_ActivityLLM(t *testing.T) {
	f := newFixture(t)
	f.activity.llm = []core.AssetID{"v2"}

	q := &core.ParsedQuery{Activity: "playing music", MediaType: core.MediaTypeVideo, RawTerms: "videos of me playing music"}
	ids, _ := f.run(t, q, WithActivityLLM(true))
	assert.Equal(t, []core.AssetID{"v2"}, ids)
	assert.Equal(t, []string{"videos of me playing music"}, f.activity.llmCalls)
	assert.Empty(t, f.activity.searched)
}

func TestSearch_EmptyStageAbsorbs(t *testing.T) {
	f := newFixture(t)

	ids, monitor := f.run(t, &core.ParsedQuery{
		Labels:    []string{"volcano"},
		People:    []string{"Alice"},
		MediaType: core.MediaTypeVideo,
		Activity:  "jump rope",
	})
	assert.Empty(t, ids)
	assert.Equal(t, []Stage{StageLabels}, monitor.ran())
	assert.Equal(t, []Stage{StagePeople, StageMediaType, StageActivity}, monitor.skipped())
	assert.Empty(t, f.activity.searched)
}

func TestSearch_MonitorHooks(t *testing.T) {
	f := newFixture(t)
	parser := &stubParser{query: &core.ParsedQuery{Location: "Athens", MediaType: core.MediaTypePhoto}}
	s, err := NewSearcher(f.repo, parser, f.geo, f.labels, f.activity)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	ids, err := s.SearchWithMonitor(context.Background(), "photos in Athens", monitor)
	require.NoError(t, err)

	_, err = uuid.Parse(monitor.searchID)
	assert.NoError(t, err)
	assert.Equal(t, "photos in Athens", monitor.query)
	require.NotNil(t, monitor.parsed)
	assert.Equal(t, "Athens", monitor.parsed.Location)
	assert.Equal(t, ids, monitor.finished)
	assert.Equal(t, []event{
		{"before", StageLocation, -1},
		{"after", StageLocation, 3},
		{"before", StageMediaType, 3},
		{"after", StageMediaType, 2},
	}, monitor.events)
}

func TestSearch_CancelledDuringLocation(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.searcher(t).SearchParsed(ctx, &core.ParsedQuery{Location: "Athens"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_TripClustering(t *testing.T) {
	repo, blobs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	var assets []*core.Asset
	for i := range 6 {
		assets = append(assets, photo(fmt.Sprintf("old%d", i), -365+i, &athens))
		assets = append(assets, photo(fmt.Sprintf("new%d", i), i, &athens))
	}
	assets = append(assets, photo("paris", 3, &paris))
	_, err = repo.AddAssets(context.Background(), assets...)
	require.NoError(t, err)

	geocoder := mock.NewMockGeocoder().AddPlace("Athens", athens.Latitude, athens.Longitude)
	geo, err := geoindex.NewIndex(context.Background(), repo, blobs, geoindex.WithGeocoder(geocoder))
	require.NoError(t, err)
	_, err = geo.BuildIndex(context.Background())
	require.NoError(t, err)

	s, err := NewSearcher(repo, &stubParser{query: &core.ParsedQuery{}}, geo, &stubLabels{}, &stubActivity{},
		WithLogger(slog.Default()))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	ids, err := s.SearchParsed(context.Background(), &core.ParsedQuery{Location: "Athens", MediaType: core.MediaTypeAll}, monitor)
	require.NoError(t, err)
	assert.Equal(t, []core.AssetID{"new5", "new4", "new3", "new2", "new1", "new0"}, ids)
	assert.Equal(t, []Stage{StageLocation, StageTrip}, monitor.ran())

	period := &core.TimePeriod{
		Start: day0.AddDate(-1, 0, -10),
		End:   day0.AddDate(0, 0, -100),
	}
	ids, err = s.SearchParsed(context.Background(), &core.ParsedQuery{Location: "Athens", TimePeriod: period, MediaType: core.MediaTypeAll}, nil)
	require.NoError(t, err)
	assert.Equal(t, []core.AssetID{"old5", "old4", "old3", "old2", "old1", "old0"}, ids)
}
