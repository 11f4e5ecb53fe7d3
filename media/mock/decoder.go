// Package mock provides a media.Decoder test double.
//
// Images and audio are synthesized from the asset ID so tests can register
// classifier labels for them: thumbnails are "thumb:<id>", frames are
// "frame:<id>" and audio clips are "audio:<id>".
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/media"
)

// ThumbnailData returns the bytes MockDecoder produces for an asset thumbnail.
func ThumbnailData(id core.AssetID) string { return "thumb:" + string(id) }

// FrameData returns the bytes MockDecoder produces for any frame of a video.
func FrameData(id core.AssetID) string { return "frame:" + string(id) }

// AudioData returns the bytes MockDecoder produces for a video's audio clip.
func AudioData(id core.AssetID) string { return "audio:" + string(id) }

// MockDecoder is a test double for media.Decoder.
type MockDecoder struct {
	ThumbnailFunc func(ctx context.Context, asset *core.Asset) (ai.Image, error)
	FrameFunc     func(ctx context.Context, asset *core.Asset, atSeconds float64) (ai.Image, error)
	AudioFunc     func(ctx context.Context, asset *core.Asset, start, length float64) (ai.Audio, error)
	ProbeFunc     func(ctx context.Context, path string) (*media.Probe, error)

	mu         sync.Mutex
	silent     map[core.AssetID]bool
	frameCalls []float64
	audioCalls [][2]float64
	thumbCalls int
}

var _ media.Decoder = (*MockDecoder)(nil)

// NewMockDecoder creates a decoder where every video has audio.
func NewMockDecoder() *MockDecoder {
	return &MockDecoder{silent: make(map[core.AssetID]bool)}
}

// WithoutAudio marks videos as having no audio track.
func (m *MockDecoder) WithoutAudio(ids ...core.AssetID) *MockDecoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.silent[id] = true
	}
	return m
}

// Thumbnail returns "thumb:<id>".
func (m *MockDecoder) Thumbnail(ctx context.Context, asset *core.Asset) (ai.Image, error) {
	m.mu.Lock()
	m.thumbCalls++
	m.mu.Unlock()

	if m.ThumbnailFunc != nil {
		return m.ThumbnailFunc(ctx, asset)
	}
	return ai.Image{MIMEType: "image/jpeg", Data: []byte(ThumbnailData(asset.ID))}, nil
}

// Frame returns "frame:<id>" and records the offset.
func (m *MockDecoder) Frame(ctx context.Context, asset *core.Asset, atSeconds float64) (ai.Image, error) {
	m.mu.Lock()
	m.frameCalls = append(m.frameCalls, atSeconds)
	m.mu.Unlock()

	if m.FrameFunc != nil {
		return m.FrameFunc(ctx, asset, atSeconds)
	}
	return ai.Image{MIMEType: "image/jpeg", Data: []byte(FrameData(asset.ID))}, nil
}

// AudioClip returns "audio:<id>", or media.ErrNoAudioTrack for silent videos.
func (m *MockDecoder) AudioClip(ctx context.Context, asset *core.Asset, start, length float64) (ai.Audio, error) {
	m.mu.Lock()
	m.audioCalls = append(m.audioCalls, [2]float64{start, length})
	silent := m.silent[asset.ID]
	m.mu.Unlock()

	if m.AudioFunc != nil {
		return m.AudioFunc(ctx, asset, start, length)
	}
	if silent {
		return ai.Audio{}, media.ErrNoAudioTrack
	}
	return ai.Audio{MIMEType: "audio/wav", Data: []byte(AudioData(asset.ID))}, nil
}

// Probe returns a ten second clip with audio unless ProbeFunc is set.
func (m *MockDecoder) Probe(ctx context.Context, path string) (*media.Probe, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return &media.Probe{DurationSeconds: 10, HasAudio: true}, nil
}

// FrameOffsets returns the offsets of every Frame call in order.
func (m *MockDecoder) FrameOffsets() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.frameCalls...)
}

// AudioWindows returns the (start, length) of every AudioClip call.
func (m *MockDecoder) AudioWindows() [][2]float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]float64(nil), m.audioCalls...)
}

// ThumbnailCount returns the number of Thumbnail calls.
func (m *MockDecoder) ThumbnailCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.thumbCalls
}
