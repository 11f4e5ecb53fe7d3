// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/poiesic/glimpse/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock chat, classifier and transcriber instances.
type MockProvider struct {
	chat        *MockChatService
	classifier  *MockClassifier
	transcriber *MockTranscriber
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockChat()/GetMockClassifier()/GetMockTranscriber() to access
// concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		chat:        NewMockChatService(),
		classifier:  NewMockClassifier(),
		transcriber: NewMockTranscriber(""),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(chat *MockChatService, classifier *MockClassifier, transcriber *MockTranscriber) ai.AIProvider {
	return &MockProvider{
		chat:        chat,
		classifier:  classifier,
		transcriber: transcriber,
	}
}

// Chat returns the mock chat service.
func (p *MockProvider) Chat() ai.ChatService {
	return p.chat
}

// Classifier returns the mock classifier.
func (p *MockProvider) Classifier() ai.VisualClassifier {
	return p.classifier
}

// Transcriber returns the mock transcriber.
func (p *MockProvider) Transcriber() ai.SpeechTranscriber {
	return p.transcriber
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockChat returns the underlying mock chat service for test assertions.
func (p *MockProvider) GetMockChat() *MockChatService {
	return p.chat
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}

// GetMockTranscriber returns the underlying mock transcriber for test assertions.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}
