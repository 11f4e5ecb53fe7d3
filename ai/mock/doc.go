// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatService,
// ai.VisualClassifier, ai.SpeechTranscriber, ai.Geocoder and ai.AIProvider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior. All
// mocks are safe for concurrent use.
//
// # Usage in Tests
//
//	chat := mock.NewMockChatService().WithReplies(`{"location": "Paris"}`, "none")
//	classifier := mock.NewMockClassifier().
//	    SetLabels("thumb-1", ai.Label{Name: "beach", Confidence: 0.9})
//	geocoder := mock.NewMockGeocoder().AddPlace("Paris", 48.8566, 2.3522)
//
//	// Check call counts
//	count := chat.CallCount()
//
// # Default Behavior
//
//   - MockChatService: scripted replies in order, the last one repeating; empty string if none
//   - MockClassifier: labels registered for the exact image bytes; otherwise none
//   - MockTranscriber: the configured text for every clip
//   - MockGeocoder: case-insensitive gazetteer lookup, ai.ErrNoGeocodeResult otherwise
package mock
