package ai

import (
	"context"

	"github.com/poiesic/glimpse/core"
)

// ChatService sends a single-turn request to a chat/completion model.
// Implementations must be thread-safe for concurrent use.
type ChatService interface {
	// Complete returns the model's text reply.
	// When req.JSON is set the model is asked for a JSON object; callers
	// still clean and validate the reply (see CleanJSON).
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// VisualClassifier labels the contents of a still image.
// Implementations must be thread-safe for concurrent use.
type VisualClassifier interface {
	// Classify returns labels with confidences in [0, 1], most confident first.
	// Returns an empty slice if nothing is recognized.
	Classify(ctx context.Context, img Image) ([]Label, error)
}

// SpeechTranscriber converts recorded speech to text.
// Implementations must be thread-safe for concurrent use.
type SpeechTranscriber interface {
	// Transcribe returns the text spoken in audio.
	// An empty Text means no speech was detected.
	Transcribe(ctx context.Context, audio Audio) (*Transcript, error)
}

// Geocoder resolves a free-form place name to a coordinate.
type Geocoder interface {
	// Geocode returns the best match for query.
	// Returns ErrNoGeocodeResult when nothing matches.
	Geocode(ctx context.Context, query string) (*core.Coordinate, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the chat, vision and speech services,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Chat returns the chat/completion service.
	Chat() ChatService

	// Classifier returns the visual classifier.
	Classifier() VisualClassifier

	// Transcriber returns the speech transcriber.
	Transcriber() SpeechTranscriber

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
