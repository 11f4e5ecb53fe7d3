package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/labelindex"
	"github.com/poiesic/glimpse/query"
	"github.com/poiesic/glimpse/storage"
)

const (
	// DefaultLimit caps results when the query names no limit.
	DefaultLimit = 100

	// DefaultLabelSkipThreshold is the number of location matches at which
	// labels the request text does not name are dropped from the label stage.
	DefaultLabelSkipThreshold = 1

	// DefaultMaxGapDays splits location matches into trips.
	DefaultMaxGapDays = 5

	// TripClusterMin is the number of location matches above which only the
	// most recent trip is kept when the query has no date.
	TripClusterMin = 10

	// DefaultRadiusKm is the search radius around a named place.
	DefaultRadiusKm = 10.0
)

// QueryParser turns request text into a structured query.
type QueryParser interface {
	Parse(ctx context.Context, text string) *core.ParsedQuery
}

// GeoSearcher resolves a place name to the assets around it.
type GeoSearcher interface {
	Search(ctx context.Context, placeName string, radiusKm float64) ([]core.AssetID, error)
}

// LabelSearcher finds photos by visual label.
type LabelSearcher interface {
	SearchAll(labels []string, mode labelindex.MatchMode) []core.AssetID
}

// ActivitySearcher finds videos by activity and by visual label.
type ActivitySearcher interface {
	Search(ctx context.Context, activity string) ([]core.AssetID, error)
	SearchWithLLM(ctx context.Context, rawQuery, activity string) ([]core.AssetID, error)
	SearchLabels(labels []string) []core.AssetID
}

// Searcher runs natural-language searches over the indices.
type Searcher struct {
	assets   storage.AssetRepository
	parser   QueryParser
	geo      GeoSearcher
	labels   LabelSearcher
	activity ActivitySearcher

	labelSkipThreshold int
	defaultLimit       int
	radiusKm           float64
	maxGap             time.Duration
	activityLLM        bool
	logger             *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithLabelSkipThreshold sets how many location matches make inferred
// labels redundant.
func WithLabelSkipThreshold(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("%w: label skip threshold %d", ErrInvalidOption, n)
		}
		s.labelSkipThreshold = n
		return nil
	}
}

// WithDefaultLimit sets the result cap used when the query names none.
func WithDefaultLimit(n int) Option {
	return func(s *Searcher) error {
		if n < 1 {
			return fmt.Errorf("%w: default limit %d", ErrInvalidOption, n)
		}
		s.defaultLimit = n
		return nil
	}
}

// WithRadius sets the search radius around a named place.
func WithRadius(km float64) Option {
	return func(s *Searcher) error {
		if km <= 0 {
			return fmt.Errorf("%w: radius %v", ErrInvalidOption, km)
		}
		s.radiusKm = km
		return nil
	}
}

// WithMaxGapDays sets the gap that separates two trips.
func WithMaxGapDays(days int) Option {
	return func(s *Searcher) error {
		if days < 1 {
			return fmt.Errorf("%w: max gap %d days", ErrInvalidOption, days)
		}
		s.maxGap = time.Duration(days) * 24 * time.Hour
		return nil
	}
}

// WithActivityLLM routes the activity stage through the chat service,
// which reads every video summary instead of matching keywords.
func WithActivityLLM(enabled bool) Option {
	return func(s *Searcher) error {
		s.activityLLM = enabled
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	assets storage.AssetRepository,
	parser QueryParser,
	geo GeoSearcher,
	labels LabelSearcher,
	activity ActivitySearcher,
	opts ...Option,
) (*Searcher, error) {
	if assets == nil {
		return nil, ErrAssetRepositoryRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if geo == nil {
		return nil, ErrGeoIndexRequired
	}
	if labels == nil {
		return nil, ErrLabelIndexRequired
	}
	if activity == nil {
		return nil, ErrActivityIndexRequired
	}

	s := &Searcher{
		assets:             assets,
		parser:             parser,
		geo:                geo,
		labels:             labels,
		activity:           activity,
		labelSkipThreshold: DefaultLabelSkipThreshold,
		defaultLimit:       DefaultLimit,
		radiusKm:           DefaultRadiusKm,
		maxGap:             DefaultMaxGapDays * 24 * time.Hour,
		logger:             slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search parses text and returns matching asset IDs, newest first.
func (s *Searcher) Search(ctx context.Context, text string) ([]core.AssetID, error) {
	return s.SearchWithMonitor(ctx, text, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (s *Searcher) SearchWithMonitor(ctx context.Context, text string, monitor SearchMonitor) ([]core.AssetID, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	searchID := uuid.NewString()
	monitor.Start(searchID, text)

	q := s.parser.Parse(ctx, text)
	monitor.AfterParse(q)
	return s.execute(ctx, searchID, q, monitor)
}

// SearchParsed runs an already parsed query.
func (s *Searcher) SearchParsed(ctx context.Context, q *core.ParsedQuery, monitor SearchMonitor) ([]core.AssetID, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	searchID := uuid.NewString()
	monitor.Start(searchID, q.RawTerms)
	monitor.AfterParse(q)
	return s.execute(ctx, searchID, q, monitor)
}

// run carries the state of a single search.
type run struct {
	q          *core.ParsedQuery
	monitor    SearchMonitor
	logger     *slog.Logger
	candidates Candidates
}

// apply runs a restrictive stage and intersects its matches with the
// candidates. Stages after an empty result are skipped.
func (r *run) apply(stage Stage, match func() ([]core.AssetID, error)) error {
	if r.candidates.IsEmpty() {
		r.skip(stage, "no candidates left")
		return nil
	}

	r.monitor.BeforeStage(stage, r.candidates)
	ids, err := match()
	if err != nil {
		return fmt.Errorf("%s stage: %w", stage, err)
	}
	r.candidates = r.candidates.Intersect(core.NewIDSet(ids...))
	r.monitor.AfterStage(stage, r.candidates)
	r.logger.Debug("stage complete", "stage", stage, "matches", len(ids), "candidates", r.candidates.Len())
	return nil
}

func (r *run) skip(stage Stage, reason string) {
	r.monitor.SkippedStage(stage, reason)
	r.logger.Debug("stage skipped", "stage", stage, "reason", reason)
}

func (s *Searcher) execute(ctx context.Context, searchID string, q *core.ParsedQuery, monitor SearchMonitor) ([]core.AssetID, error) {
	start := time.Now()
	r := &run{
		q:          q,
		monitor:    monitor,
		logger:     s.logger.With("search", searchID),
		candidates: Unconstrained(),
	}

	locationMatched := 0
	if q.HasLocation() {
		err := r.apply(StageLocation, func() ([]core.AssetID, error) {
			ids, err := s.locate(ctx, q)
			locationMatched = len(ids)
			return ids, err
		})
		if err != nil {
			return nil, err
		}

		if !q.HasTimePeriod() && locationMatched > TripClusterMin {
			err := r.apply(StageTrip, func() ([]core.AssetID, error) {
				assets, err := s.assets.GetAssets(ctx, r.candidates.IDs().Sorted()...)
				if err != nil {
					return nil, err
				}
				return MostRecentTrip(assets, s.maxGap).Sorted(), nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if q.HasLabels() {
		labels := q.CleanLabels()
		if q.HasLocation() && locationMatched >= s.labelSkipThreshold {
			labels = explicitLabels(q.RawTerms, labels)
		}
		if len(labels) == 0 {
			r.skip(StageLabels, fmt.Sprintf("location matched %d assets and the labels were inferred", locationMatched))
		} else if err := r.apply(StageLabels, func() ([]core.AssetID, error) {
			terms := labelindex.ExpandSearchTerms(labels)
			matches := core.NewIDSet(s.labels.SearchAll(terms, labelindex.MatchAny)...)
			matches.Add(s.activity.SearchLabels(terms)...)
			return matches.Sorted(), nil
		}); err != nil {
			return nil, err
		}
	}

	if q.HasTimePeriod() {
		if err := r.apply(StageDate, func() ([]core.AssetID, error) {
			return s.assets.GetAssetIDsByDateRange(ctx, q.TimePeriod.Start, q.TimePeriod.End)
		}); err != nil {
			return nil, err
		}
	}

	if q.HasPeople() {
		if err := r.apply(StagePeople, func() ([]core.AssetID, error) {
			matches := core.NewIDSet()
			for _, name := range q.CleanPeople() {
				ids, err := s.assets.GetAssetIDsByPerson(ctx, name)
				if err != nil {
					return nil, err
				}
				matches.Add(ids...)
			}
			return matches.Sorted(), nil
		}); err != nil {
			return nil, err
		}
	}

	if q.IsSelfPhotos {
		if r.candidates.IsEmpty() && q.HasContentFilter() {
			r.skip(StageSelf, "content filters matched nothing")
		} else if err := r.apply(StageSelf, func() ([]core.AssetID, error) {
			return s.assets.GetSelfPhotoIDs(ctx)
		}); err != nil {
			return nil, err
		}
	}

	if q.MediaType != core.MediaTypeAll {
		if err := r.apply(StageMediaType, func() ([]core.AssetID, error) {
			return s.assets.GetAssetIDsByMediaType(ctx, q.MediaType)
		}); err != nil {
			return nil, err
		}
	}

	if q.HasActivity() {
		if q.MediaType != core.MediaTypeVideo {
			r.skip(StageActivity, "activity applies to video queries only")
		} else if err := r.apply(StageActivity, func() ([]core.AssetID, error) {
			activity := strings.TrimSpace(q.Activity)
			if s.activityLLM {
				return s.activity.SearchWithLLM(ctx, q.RawTerms, activity)
			}
			return s.activity.Search(ctx, activity)
		}); err != nil {
			return nil, err
		}
	}

	limit := s.defaultLimit
	if q.Limit > 0 {
		limit = q.Limit
	}
	ids, err := s.order(ctx, r.candidates, limit)
	if err != nil {
		return nil, err
	}

	monitor.Finish(ids)
	r.logger.Info("search complete",
		"query", q.RawTerms,
		"constrained", r.candidates.IsConstrained(),
		"results", len(ids),
		"elapsed", time.Since(start))
	return ids, nil
}

// locate resolves the query location. An unknown place matches nothing.
func (s *Searcher) locate(ctx context.Context, q *core.ParsedQuery) ([]core.AssetID, error) {
	place := strings.TrimSpace(q.Location)
	hint := strings.TrimSpace(q.LocationHint)
	if hint != "" && !strings.EqualFold(hint, "null") && !strings.Contains(strings.ToLower(place), strings.ToLower(hint)) {
		place += ", " + hint
	}

	ids, err := s.geo.Search(ctx, place, s.radiusKm)
	switch {
	case err == nil:
		return ids, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, core.ErrLocationNotFound):
		s.logger.Info("location not found", "place", place)
	default:
		s.logger.Warn("location lookup failed", "place", place, "err", err)
	}
	return nil, nil
}

// order returns up to limit candidates newest first. Unconstrained
// candidates yield the most recent assets of the library.
func (s *Searcher) order(ctx context.Context, c Candidates, limit int) ([]core.AssetID, error) {
	var ids []core.AssetID
	if c.IsConstrained() {
		ids = c.IDs().Sorted()
	} else {
		all, err := s.assets.GetAssetIDsByDateRange(ctx, time.Time{}, maxTime)
		if err != nil {
			return nil, err
		}
		ids = all[max(0, len(all)-limit):]
	}
	if len(ids) == 0 {
		return []core.AssetID{}, nil
	}

	assets, err := s.assets.GetAssets(ctx, ids...)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(assets, byDateDesc)
	if len(assets) > limit {
		assets = assets[:limit]
	}

	out := make([]core.AssetID, len(assets))
	for i, a := range assets {
		out[i] = a.ID
	}
	return out, nil
}

var maxTime = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// explicitLabels keeps the labels that the request text names itself,
// directly or through a synonym. Compared after normalization, so
// "seashore" in the text keeps the label "beach".
func explicitLabels(raw string, labels []string) []string {
	typed := make(map[string]bool)
	for _, l := range query.KeywordLabels(raw) {
		typed[labelindex.Normalize(l)] = true
	}
	var out []string
	for _, l := range labels {
		if typed[labelindex.Normalize(l)] {
			out = append(out, l)
		}
	}
	return out
}
