package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/storage"
)

// AssetRepository implements storage.AssetRepository for BadgerDB.
type AssetRepository struct {
	backend *Backend
}

var _ storage.AssetRepository = (*AssetRepository)(nil)

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository(backend *Backend) (*AssetRepository, error) {
	if backend == nil || backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return &AssetRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *AssetRepository) Close() error {
	return nil
}

// AddAssets inserts or replaces assets in a single transaction.
func (r *AssetRepository) AddAssets(ctx context.Context, assets ...*core.Asset) ([]*core.Asset, error) {
	for _, asset := range assets {
		if err := core.ValidateAsset(asset); err != nil {
			return nil, err
		}
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		for _, asset := range assets {
			key := makeAssetKey(asset.ID)

			old, err := readAsset(tx, key)
			if err != nil {
				return err
			}
			if old != nil {
				if err := deleteAssetIndices(tx, old); err != nil {
					return err
				}
				asset.InsertedAt = old.InsertedAt
			} else {
				asset.InsertedAt = now
			}
			asset.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalAsset(asset)); err != nil {
				return err
			}
			if err := setAssetIndices(tx, asset); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// DeleteAssets removes assets and their index entries.
func (r *AssetRepository) DeleteAssets(ctx context.Context, ids ...core.AssetID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAssetKey(id)
			asset, err := readAsset(tx, key)
			if err != nil {
				return err
			}
			if asset == nil {
				return storage.ErrNotFound
			}
			if err := deleteAssetIndices(tx, asset); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetAsset retrieves a single asset by ID.
func (r *AssetRepository) GetAsset(ctx context.Context, id core.AssetID) (*core.Asset, error) {
	var result *core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readAsset(tx, makeAssetKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetAssets retrieves multiple assets by their IDs.
func (r *AssetRepository) GetAssets(ctx context.Context, ids ...core.AssetID) ([]*core.Asset, error) {
	var result []*core.Asset
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			asset, err := readAsset(tx, makeAssetKey(id))
			if err != nil {
				return err
			}
			if asset != nil {
				result = append(result, asset)
			}
		}
		return nil
	}, false)
	return result, err
}

// ForEachAsset walks the date index so assets arrive in creation order.
func (r *AssetRepository) ForEachAsset(ctx context.Context, fn func(*core.Asset) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(assetDatePrefix + ":")
		return scanPrefix(tx, prefix, func(key []byte) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			asset, err := readAsset(tx, makeAssetKey(dateKeyID(key)))
			if err != nil {
				return err
			}
			if asset == nil {
				return nil
			}
			return fn(asset)
		})
	}, false)
}

// CountAssets returns the number of stored assets.
func (r *AssetRepository) CountAssets(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(assetDatePrefix+":"), func([]byte) error {
			count++
			return nil
		})
	}, false)
	return count, err
}

// GetAssetIDsByDateRange returns IDs of assets created within [start, end].
func (r *AssetRepository) GetAssetIDsByDateRange(ctx context.Context, start, end time.Time) ([]core.AssetID, error) {
	if end.Before(start) {
		return nil, storage.ErrInvalidQuery
	}

	var ids []core.AssetID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(assetDatePrefix + ":")
		startKey := makePartialAssetDateKey(start)
		last := dateBytes(end)

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(startKey); iter.ValidForPrefix(prefix); iter.Next() {
			key := iter.Item().Key()
			if binary.BigEndian.Uint64(key[len(prefix):]) > last {
				break
			}
			ids = append(ids, dateKeyID(key))
		}
		return nil
	}, false)
	return ids, err
}

// GetAssetIDsByMediaType returns IDs of assets of the given type.
func (r *AssetRepository) GetAssetIDsByMediaType(ctx context.Context, mediaType core.MediaType) ([]core.AssetID, error) {
	if mediaType == core.MediaTypeAll {
		return r.allIDs()
	}
	return r.idsWithPrefix(makePartialAssetMediaKey(mediaType))
}

// GetAssetIDsByPerson returns IDs of assets tagged with the named person.
func (r *AssetRepository) GetAssetIDsByPerson(ctx context.Context, name string) ([]core.AssetID, error) {
	prefix := append(makePartialAssetPersonKey(name), 0)
	return r.idsWithPrefix(prefix)
}

// GetSelfPhotoIDs returns IDs of assets flagged as selfies.
func (r *AssetRepository) GetSelfPhotoIDs(ctx context.Context) ([]core.AssetID, error) {
	return r.idsWithPrefix([]byte(assetSelfiePrefix + ":"))
}

// Helper methods

func (r *AssetRepository) allIDs() ([]core.AssetID, error) {
	var ids []core.AssetID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, []byte(assetDatePrefix+":"), func(key []byte) error {
			ids = append(ids, dateKeyID(key))
			return nil
		})
	}, false)
	return ids, err
}

// idsWithPrefix returns the key suffixes after prefix as asset IDs.
func (r *AssetRepository) idsWithPrefix(prefix []byte) ([]core.AssetID, error) {
	var ids []core.AssetID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		return scanPrefix(tx, prefix, func(key []byte) error {
			ids = append(ids, core.AssetID(key[len(prefix):]))
			return nil
		})
	}, false)
	return ids, err
}

// dateKeyID extracts the asset ID from a date index key.
func dateKeyID(key []byte) core.AssetID {
	return core.AssetID(key[len(assetDatePrefix)+1+8:])
}

// readAsset reads an asset from the transaction. Returns nil, nil when absent.
func readAsset(tx *badger.Txn, key []byte) (*core.Asset, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var asset *core.Asset
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		asset, unmarshalErr = storage.UnmarshalAsset(val)
		return unmarshalErr
	})
	return asset, err
}

func setAssetIndices(tx *badger.Txn, asset *core.Asset) error {
	if err := tx.Set(makeAssetDateKey(asset.CreatedAt, asset.ID), nil); err != nil {
		return err
	}
	if err := tx.Set(makeAssetMediaKey(asset.MediaType, asset.ID), nil); err != nil {
		return err
	}
	for _, person := range asset.People {
		if err := tx.Set(makeAssetPersonKey(person, asset.ID), nil); err != nil {
			return err
		}
	}
	if asset.IsSelfie {
		if err := tx.Set(makeAssetSelfieKey(asset.ID), nil); err != nil {
			return err
		}
	}
	return nil
}

func deleteAssetIndices(tx *badger.Txn, asset *core.Asset) error {
	keys := [][]byte{
		makeAssetDateKey(asset.CreatedAt, asset.ID),
		makeAssetMediaKey(asset.MediaType, asset.ID),
		makeAssetSelfieKey(asset.ID),
	}
	for _, person := range asset.People {
		keys = append(keys, makeAssetPersonKey(person, asset.ID))
	}
	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
