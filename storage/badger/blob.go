package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/glimpse/storage"
)

// BlobStore implements storage.BlobStore for BadgerDB.
// Each value lives under a single key, so a Put is replaced atomically
// when its transaction commits.
type BlobStore struct {
	backend *Backend
}

var _ storage.BlobStore = (*BlobStore)(nil)

// NewBlobStore creates a new BlobStore.
func NewBlobStore(backend *Backend) *BlobStore {
	return &BlobStore{backend: backend}
}

// Get returns the bytes stored under key.
func (s *BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeBlobKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	}, false)
	return data, err
}

// Put stores data under key, replacing any previous value.
func (s *BlobStore) Put(ctx context.Context, key string, data []byte) error {
	if s.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeBlobKey(key), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Delete removes key. Absent keys are ignored.
func (s *BlobStore) Delete(ctx context.Context, key string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeBlobKey(key)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
