package indexing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/storage"
)

const (
	persistAttempts = 3
	persistDelay    = 20 * time.Millisecond
)

// SaveSnapshot writes a whole snapshot under key, retrying transient failures.
// Failures wrap core.ErrPersistenceFailure.
func SaveSnapshot(ctx context.Context, blobs storage.BlobStore, key string, data []byte) error {
	// A cancelled build still writes its final snapshot.
	ctx = context.WithoutCancel(ctx)
	err := RetryWithBackoff(ctx, func() error {
		err := blobs.Put(ctx, key, data)
		if errors.Is(err, storage.ErrStorageClosed) {
			return Permanent(err)
		}
		return err
	}, persistAttempts, persistDelay)
	if err != nil {
		return fmt.Errorf("%w: saving %s: %w", core.ErrPersistenceFailure, key, err)
	}
	return nil
}

// LoadSnapshot reads the snapshot under key. A missing snapshot returns nil, nil.
func LoadSnapshot(ctx context.Context, blobs storage.BlobStore, key string) ([]byte, error) {
	data, err := blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", core.ErrPersistenceFailure, key, err)
	}
	return data, nil
}

// DeleteSnapshot removes the snapshot under key.
func DeleteSnapshot(ctx context.Context, blobs storage.BlobStore, key string) error {
	if err := blobs.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: deleting %s: %w", core.ErrPersistenceFailure, key, err)
	}
	return nil
}
