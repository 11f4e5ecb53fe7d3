package storage

import (
	"context"
	"time"

	"github.com/poiesic/glimpse/core"
)

// AssetRepository is the Asset Store: per-asset metadata plus the native
// date, media-type, people and selfie filters the search orchestrator uses.
// Implementations must be thread-safe and support concurrent access.
type AssetRepository interface {
	// AddAssets inserts or replaces assets.
	// Secondary indices of replaced assets are rewritten.
	// Sets InsertedAt on new assets and UpdatedAt on every asset.
	AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error)

	// DeleteAssets removes assets and their secondary index entries.
	// Returns ErrNotFound if any asset doesn't exist.
	DeleteAssets(ctx context.Context, ids ...core.AssetID) error

	// GetAsset retrieves a single asset by ID.
	// Returns ErrNotFound if the asset doesn't exist.
	GetAsset(ctx context.Context, id core.AssetID) (*core.Asset, error)

	// GetAssets retrieves multiple assets by their IDs, in the order given.
	// Returns only the assets that exist (no error for missing assets).
	GetAssets(ctx context.Context, ids ...core.AssetID) ([]*core.Asset, error)

	// ForEachAsset calls fn for every asset in creation-date order.
	// Iteration stops at the first error returned by fn.
	ForEachAsset(ctx context.Context, fn func(*core.Asset) error) error

	// CountAssets returns the number of stored assets.
	CountAssets(ctx context.Context) (int, error)

	// GetAssetIDsByDateRange returns IDs of assets with start <= CreatedAt <= end,
	// ordered by creation date.
	GetAssetIDsByDateRange(ctx context.Context, start, end time.Time) ([]core.AssetID, error)

	// GetAssetIDsByMediaType returns IDs of assets of the given type.
	// MediaTypeAll returns every asset.
	GetAssetIDsByMediaType(ctx context.Context, mediaType core.MediaType) ([]core.AssetID, error)

	// GetAssetIDsByPerson returns IDs of assets tagged with the person (case-insensitive).
	GetAssetIDsByPerson(ctx context.Context, name string) ([]core.AssetID, error)

	// GetSelfPhotoIDs returns IDs of assets flagged as selfies.
	GetSelfPhotoIDs(ctx context.Context) ([]core.AssetID, error)

	// Close releases resources held by the repository.
	Close() error
}

// BlobStore is durable key to bytes persistence for index snapshots.
// Put replaces the whole value atomically.
type BlobStore interface {
	// Get returns the stored bytes. Returns ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// CheckpointRepository records the last completed build of each index.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for an index.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for an index.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, index string) (*core.Checkpoint, error)

	// ListCheckpoints returns every stored checkpoint.
	ListCheckpoints(ctx context.Context) ([]*core.Checkpoint, error)

	// DeleteCheckpoint removes the checkpoint for an index.
	DeleteCheckpoint(ctx context.Context, index string) error
}
