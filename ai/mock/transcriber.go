package mock

import (
	"context"
	"sync"

	"github.com/poiesic/glimpse/ai"
)

// MockTranscriber is a test double for ai.SpeechTranscriber.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, Text is returned for every clip.
	TranscribeFunc func(ctx context.Context, audio ai.Audio) (*ai.Transcript, error)

	// Text is the default transcript.
	Text string

	mu        sync.Mutex
	callCount int
}

// NewMockTranscriber creates a mock transcriber that returns text.
func NewMockTranscriber(text string) *MockTranscriber {
	return &MockTranscriber{Text: text}
}

// WithTranscribeFunc sets custom transcription behavior.
func (m *MockTranscriber) WithTranscribeFunc(fn func(ctx context.Context, audio ai.Audio) (*ai.Transcript, error)) *MockTranscriber {
	m.TranscribeFunc = fn
	return m
}

// Transcribe returns the configured transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, audio ai.Audio) (*ai.Transcript, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio)
	}
	return &ai.Transcript{Text: m.Text, Language: "en"}, nil
}

// CallCount returns the number of times Transcribe was called.
func (m *MockTranscriber) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
