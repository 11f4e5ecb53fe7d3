// Package media reads photos and videos from disk for the indices: it
// extracts thumbnails, video frames and audio clips, probes video metadata,
// and scans directories into core.Asset records.
package media

import (
	"context"
	"errors"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
)

var (
	// ErrNoAudioTrack indicates a video without an audio stream.
	ErrNoAudioTrack = errors.New("no audio track")

	// ErrNoPath indicates an asset without a backing file.
	ErrNoPath = errors.New("asset has no path")

	// ErrUnsupportedMedia indicates a file that is neither a photo nor a video.
	ErrUnsupportedMedia = errors.New("unsupported media file")
)

// Probe is the container-level metadata of a media file.
type Probe struct {
	DurationSeconds float64
	HasAudio        bool
	CreatedAt       time.Time        // Zero when the container has no creation time
	Location        *core.Coordinate // Nil when the container has no location
}

// Prober reads container metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (*Probe, error)
}

// Decoder extracts the images and audio the indices feed to AI services.
// Implementations must be thread-safe for concurrent use.
type Decoder interface {
	Prober

	// Thumbnail returns a small JPEG rendition of a photo, or of the first
	// second of a video.
	Thumbnail(ctx context.Context, asset *core.Asset) (ai.Image, error)

	// Frame returns a JPEG of the video frame at the given offset.
	Frame(ctx context.Context, asset *core.Asset, atSeconds float64) (ai.Image, error)

	// AudioClip returns mono 16 kHz WAV audio starting at start.
	// Returns ErrNoAudioTrack when the video has no audio.
	AudioClip(ctx context.Context, asset *core.Asset, start, length float64) (ai.Audio, error)
}
