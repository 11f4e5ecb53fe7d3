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


package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/storage"
)

// CheckpointRepository keeps one record per index under the chkpt prefix.
type CheckpointRepository struct {
	backend *Backend
}

var _ storage.CheckpointRepository = (*CheckpointRepository)(nil)

// NewCheckpointRepository creates a new CheckpointRepository.
func NewCheckpointRepository(backend *Backend) *CheckpointRepository {
	return &CheckpointRepository{backend: backend}
}

// SaveCheckpoint stamps UpdatedAt and replaces the index's previous checkpoint.
func (r *CheckpointRepository) SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error {
	if checkpoint == nil || checkpoint.Index == "" {
		return storage.ErrInvalidKey
	}
	checkpoint.UpdatedAt = time.Now().UTC()
	data := storage.MarshalCheckpoint(checkpoint)
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeCheckpointKey(checkpoint.Index), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadCheckpoint returns nil, nil for an index that was never built.
func (r *CheckpointRepository) LoadCheckpoint(ctx context.Context, index string) (*core.Checkpoint, error) {
	var checkpoint *core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCheckpointKey(index))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		checkpoint, err = readCheckpoint(item)
		return err
	}, false)
	return checkpoint, err
}

// ListCheckpoints returns every stored checkpoint in key order.
func (r *CheckpointRepository) ListCheckpoints(ctx context.Context) ([]*core.Checkpoint, error) {
	var out []*core.Checkpoint
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(checkpointPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			cp, err := readCheckpoint(iter.Item())
			if err != nil {
				return err
			}
			out = append(out, cp)
		}
		return nil
	}, false)
	return out, err
}

// DeleteCheckpoint forgets an index's last build. Absent checkpoints are ignored.
func (r *CheckpointRepository) DeleteCheckpoint(ctx context.Context, index string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeCheckpointKey(index)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func readCheckpoint(item *badger.Item) (*core.Checkpoint, error) {
	var cp *core.Checkpoint
	err := item.Value(func(val []byte) error {
		var err error
		cp, err = storage.UnmarshalCheckpoint(val)
		return err
	})
	return cp, err
}
