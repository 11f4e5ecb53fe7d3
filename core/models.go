package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// AssetID identifies a media asset in the Asset Store.
type AssetID string

// IDFromContent generates a deterministic AssetID from text content using BLAKE2b hashing.
// Scanned files use their absolute path as content so re-imports map to the same ID.
func IDFromContent(text string) AssetID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], binary.LittleEndian.Uint64(sum))
	return AssetID(hex.EncodeToString(buf[:]))
}

// MediaType classifies an asset.
type MediaType int

const (
	// MediaTypeAll matches any asset. It is only meaningful as a query filter.
	MediaTypeAll MediaType = iota
	// MediaTypePhoto is a still image.
	MediaTypePhoto
	// MediaTypeVideo is a video clip.
	MediaTypeVideo
)

// String returns the lowercase name used in prompts, CLI output and storage keys.
func (m MediaType) String() string {
	switch m {
	case MediaTypePhoto:
		return "photo"
	case MediaTypeVideo:
		return "video"
	default:
		return "all"
	}
}

// ParseMediaType maps a name back to a MediaType. Unknown names map to MediaTypeAll.
func ParseMediaType(s string) MediaType {
	switch s {
	case "photo", "photos", "image", "images", "picture", "pictures":
		return MediaTypePhoto
	case "video", "videos", "movie", "movies", "clip", "clips":
		return MediaTypeVideo
	default:
		return MediaTypeAll
	}
}

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Asset is the per-asset metadata exposed by the Asset Store.
type Asset struct {
	ID              AssetID
	Path            string      // Location of the media file, empty for externally managed assets
	CreatedAt       time.Time   // Capture time
	Location        *Coordinate // GPS coordinate, nil when the asset carries no location
	MediaType       MediaType
	DurationSeconds float64  // Zero for photos
	People          []string // Person tags
	IsSelfie        bool     // Captured with a front-facing camera
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// HasLocation reports whether the asset carries a GPS coordinate.
func (a *Asset) HasLocation() bool {
	return a.Location != nil
}

// ActivityRecord summarizes what happens in a single video.
type ActivityRecord struct {
	AssetID         AssetID
	ActivitySummary string
	AudioTranscript *string // nil when the video has no audio or transcription failed
	Keywords        []string
	VisualLabels    []string
	DurationSeconds float64
	IndexedAt       time.Time
}

// Transcript returns the audio transcript or an empty string.
func (r *ActivityRecord) Transcript() string {
	if r.AudioTranscript == nil {
		return ""
	}
	return *r.AudioTranscript
}

// BuildStats reports the outcome of a single index build run.
type BuildStats struct {
	Index        string
	Total        int // Assets examined
	Eligible     int // Assets the index applies to (with location, photos, videos)
	NewlyIndexed int
	Skipped      int // Already indexed, or deliberately skipped
	Failed       int // Per-asset failures, retried on the next run
	UniqueKeys   int // Distinct cells, labels or keywords after the run
	Cancelled    bool
	Elapsed      time.Duration
}

// Checkpoint records the last completed build of an index.
type Checkpoint struct {
	Index       string
	Stats       BuildStats
	IndexedSize int
	UpdatedAt   time.Time
}
