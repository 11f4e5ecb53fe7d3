package badger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/glimpse/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := OpenBackend(file, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestWithTx_DiscardsOnError(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte("k"), []byte("v")); err != nil {
			return err
		}
		return assert.AnError
	}, true)
	assert.Equal(t, assert.AnError, err)

	err = backend.WithTx(func(tx *badger.Txn) error {
		_, err := tx.Get([]byte("k"))
		return err
	}, false)
	assert.ErrorIs(t, err, badger.ErrKeyNotFound)
}

func TestDateKeyOrdering(t *testing.T) {
	before := makePartialAssetDateKey(time.Date(1965, 6, 1, 0, 0, 0, 0, time.UTC))
	epoch := makePartialAssetDateKey(time.Unix(0, 0))
	after := makePartialAssetDateKey(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Less(t, string(before), string(epoch))
	assert.Less(t, string(epoch), string(after))
}

func TestDateKeyID(t *testing.T) {
	id := core.AssetID("0123456789abcdef")
	key := makeAssetDateKey(time.Now(), id)
	assert.Equal(t, id, dateKeyID(key))
}
