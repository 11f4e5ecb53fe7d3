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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/storage"
	"golang.org/x/sync/errgroup"
)

// Index is an incrementally built index.
// Implementations process only assets they have not seen before.
type Index interface {
	BuildIndex(ctx context.Context, opts ...indexing.BuildOption) (core.BuildStats, error)
}

// Build runs every index concurrently and records a checkpoint for each
// completed build. Stats are returned in index order. A failing index does
// not stop the others; the failures are joined into the returned error.
func (p *Pipeline) Build(ctx context.Context, opts ...indexing.BuildOption) ([]core.BuildStats, error) {
	stats := make([]core.BuildStats, len(p.indices))
	errs := make([]error, len(p.indices))

	var g errgroup.Group
	for i, idx := range p.indices {
		g.Go(func() error {
			stats[i], errs[i] = p.BuildIndex(ctx, idx, opts...)
			return nil
		})
	}
	_ = g.Wait()
	return stats, errors.Join(errs...)
}

// BuildIndex runs a single index and records its checkpoint.
func (p *Pipeline) BuildIndex(ctx context.Context, idx Index, opts ...indexing.BuildOption) (core.BuildStats, error) {
	s, err := idx.BuildIndex(ctx, opts...)
	if err != nil {
		p.logger.Error("index build failed", "index", s.Index, "err", err)
		return s, fmt.Errorf("%s index: %w", s.Index, err)
	}
	if err := p.checkpoint(ctx, s); err != nil {
		p.logger.Warn("failed to save checkpoint", "index", s.Index, "err", err)
	}
	return s, nil
}

// checkpoint records a completed build. Cancelled builds are not recorded.
func (p *Pipeline) checkpoint(ctx context.Context, s core.BuildStats) error {
	if p.checkpoints == nil || s.Cancelled || s.Index == "" {
		return nil
	}
	return p.checkpoints.SaveCheckpoint(context.WithoutCancel(ctx), &core.Checkpoint{
		Index:       s.Index,
		Stats:       s,
		IndexedSize: s.NewlyIndexed + s.Skipped,
	})
}

// Checkpoints returns the last recorded build of each named index.
// Indices never built are omitted.
func Checkpoints(ctx context.Context, repo storage.CheckpointRepository, names ...string) ([]*core.Checkpoint, error) {
	all, err := repo.ListCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading checkpoints: %w", err)
	}
	out := make([]*core.Checkpoint, 0, len(names))
	for _, name := range names {
		if i := slices.IndexFunc(all, func(cp *core.Checkpoint) bool { return cp.Index == name }); i >= 0 {
			out = append(out, all[i])
		}
	}
	return out, nil
}
