package badger

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/poiesic/glimpse/core"
)

// Key prefixes for different data types
const (
	assetPrefix       = "asset"
	assetDatePrefix   = "assetd"
	assetMediaPrefix  = "assetm"
	assetPersonPrefix = "assetp"
	assetSelfiePrefix = "assets"
	blobPrefix        = "blob"
	checkpointPrefix  = "chkpt"
)

// makeAssetKey generates a key for an asset by ID.
func makeAssetKey(id core.AssetID) []byte {
	return []byte(fmt.Sprintf("%s:%s", assetPrefix, id))
}

// dateBytes encodes t so that byte order matches time order, including
// times before the epoch.
func dateBytes(t time.Time) uint64 {
	return uint64(t.UnixMicro()) ^ (1 << 63)
}

// makeAssetDateKey generates a composite key for the date index.
// Format: prefix:timestamp:id
func makeAssetDateKey(createdAt time.Time, id core.AssetID) []byte {
	prefix := assetDatePrefix + ":"
	buf := make([]byte, len(prefix)+8+len(id))
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], dateBytes(createdAt))
	offset += 8
	copy(buf[offset:], id)
	return buf
}

// makePartialAssetDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialAssetDateKey(t time.Time) []byte {
	prefix := assetDatePrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], dateBytes(t))
	return buf
}

// makeAssetMediaKey generates a key for the media type index.
// Format: prefix:type:id
func makeAssetMediaKey(mediaType core.MediaType, id core.AssetID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", assetMediaPrefix, mediaType, id))
}

func makePartialAssetMediaKey(mediaType core.MediaType) []byte {
	return []byte(fmt.Sprintf("%s:%s:", assetMediaPrefix, mediaType))
}

// makeAssetPersonKey generates a key for the people index.
// Names are case-folded and separated from the ID by a NUL byte.
// Format: prefix:name\x00id
func makeAssetPersonKey(name string, id core.AssetID) []byte {
	return []byte(fmt.Sprintf("%s\x00%s", makePartialAssetPersonKey(name), id))
}

func makePartialAssetPersonKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", assetPersonPrefix, strings.ToLower(strings.TrimSpace(name))))
}

// makeAssetSelfieKey generates a key for the selfie index.
func makeAssetSelfieKey(id core.AssetID) []byte {
	return []byte(fmt.Sprintf("%s:%s", assetSelfiePrefix, id))
}

// makeBlobKey generates a key for a snapshot blob.
func makeBlobKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", blobPrefix, key))
}

// makeCheckpointKey generates a key for index build checkpoints.
func makeCheckpointKey(index string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, index))
}
