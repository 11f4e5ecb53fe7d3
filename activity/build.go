package activity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
)

type analysis struct {
	asset  *core.Asset
	record *core.ActivityRecord
	err    error
}

// BuildIndex analyzes every video not yet indexed, a batch of videos at a
// time on the worker pool. Per-video failures are counted and retried on the
// next run; screen recordings are marked indexed without a record.
// Cancellation is checked between batches.
func (idx *Index) BuildIndex(ctx context.Context, opts ...indexing.BuildOption) (core.BuildStats, error) {
	idx.buildMu.Lock()
	defer idx.buildMu.Unlock()

	options := indexing.ApplyOptions(opts...)
	stats := core.BuildStats{Index: IndexName}
	start := time.Now()

	var pending []*core.Asset
	err := idx.assets.ForEachAsset(ctx, func(a *core.Asset) error {
		stats.Total++
		if a.MediaType != core.MediaTypeVideo {
			return nil
		}
		stats.Eligible++
		if idx.IsIndexed(a.ID) {
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

	tracker := indexing.NewTracker(IndexName, len(pending), 1, options)
	idx.tracker.Store(tracker)
	tracker.Start()
	defer tracker.Finish()

	sinceSave := 0
	for batchStart := 0; batchStart < len(pending); batchStart += idx.concurrency {
		if ctx.Err() != nil {
			stats.Cancelled = true
			break
		}
		batch := pending[batchStart:min(batchStart+idx.concurrency, len(pending))]

		for _, result := range idx.analyzeBatch(ctx, batch) {
			tracker.Increment(1)
			switch {
			case result.err == nil:
				idx.mu.Lock()
				idx.insert(result.record)
				idx.indexed.Add(result.asset.ID)
				idx.mu.Unlock()
				stats.NewlyIndexed++
				sinceSave++
			case errors.Is(result.err, core.ErrSkipAsset):
				idx.mu.Lock()
				idx.indexed.Add(result.asset.ID)
				idx.mu.Unlock()
				stats.Skipped++
				sinceSave++
			case ctx.Err() != nil:
				stats.Cancelled = true
			default:
				stats.Failed++
				idx.logger.Warn("failed to analyze video", "asset", result.asset.ID, "err", result.err)
			}
		}

		if sinceSave >= persistInterval {
			_ = idx.persist(ctx)
			sinceSave = 0
		}
	}

	persistErr := idx.persist(ctx)

	idx.mu.RLock()
	stats.UniqueKeys = len(idx.keywords)
	idx.mu.RUnlock()
	stats.Elapsed = time.Since(start)

	idx.logger.Info("activity index build complete",
		"videos", stats.Eligible,
		"newlyIndexed", stats.NewlyIndexed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"uniqueKeywords", stats.UniqueKeys,
		"cancelled", stats.Cancelled,
		"elapsed", stats.Elapsed)
	return stats, persistErr
}

// analyzeBatch runs AnalyzeVideo for each asset on the pool and waits for all of them.
func (idx *Index) analyzeBatch(ctx context.Context, batch []*core.Asset) []analysis {
	results := make([]analysis, len(batch))
	var wg sync.WaitGroup
	for i, asset := range batch {
		results[i].asset = asset
		wg.Add(1)
		err := idx.pool.Submit(func() {
			defer wg.Done()
			results[i].record, results[i].err = idx.AnalyzeVideo(ctx, asset)
		})
		if err != nil {
			wg.Done()
			results[i].err = err
		}
	}
	wg.Wait()
	return results
}
