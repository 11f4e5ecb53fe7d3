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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// ChatHost is the base URL for the chat/completion API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	ChatHost string

	// VisionHost is the base URL for the vision model used as visual classifier.
	VisionHost string

	// TranscriptionHost is the base URL for the /audio/transcriptions endpoint.
	TranscriptionHost string

	// ChatModel is the model identifier for query parsing, summaries and refinement.
	// Example: "qwen2.5:7b", "gpt-4o-mini"
	ChatModel string

	// VisionModel is the model identifier for image classification.
	// Example: "qwen2.5vl:7b", "gpt-4o-mini"
	VisionModel string

	// TranscriptionModel is the model identifier for speech transcription.
	// Example: "whisper-1"
	TranscriptionModel string

	// APIKey is sent as a bearer token. Local servers accept any value.
	APIKey string

	// MinConfidence is the minimum classifier confidence kept by the indices.
	// Default: 0.4
	MinConfidence float64

	// MaxLabels caps the labels kept per image.
	// Default: 10
	MaxLabels int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the chat, vision and transcription hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
		c.VisionHost = host
		c.TranscriptionHost = host
	}
}

// WithChatHost sets the chat service host URL.
func WithChatHost(host string) ConfigOption {
	return func(c *Config) {
		c.ChatHost = host
	}
}

// WithVisionHost sets the vision service host URL.
func WithVisionHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisionHost = host
	}
}

// WithTranscriptionHost sets the transcription service host URL.
func WithTranscriptionHost(host string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionHost = host
	}
}

// WithChatModel sets the chat model identifier.
func WithChatModel(model string) ConfigOption {
	return func(c *Config) {
		c.ChatModel = model
	}
}

// WithVisionModel sets the vision model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithTranscriptionModel sets the transcription model identifier.
func WithTranscriptionModel(model string) ConfigOption {
	return func(c *Config) {
		c.TranscriptionModel = model
	}
}

// WithAPIKey sets the bearer token sent to every service.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMinConfidence sets the classifier confidence threshold.
func WithMinConfidence(min float64) ConfigOption {
	return func(c *Config) {
		c.MinConfidence = min
	}
}

// WithMaxLabels sets the per-image label cap.
func WithMaxLabels(max int) ConfigOption {
	return func(c *Config) {
		c.MaxLabels = max
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default all services use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		ChatHost:           defaultHost,
		VisionHost:         defaultHost,
		TranscriptionHost:  defaultHost,
		ChatModel:          "qwen2.5:7b",
		VisionModel:        "qwen2.5vl:7b",
		TranscriptionModel: "whisper-1",
		APIKey:             "none",
		MinConfidence:      0.4,
		MaxLabels:          10,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithVisionModel("llava:13b"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.ChatHost = normalizeHost(c.ChatHost)
	c.VisionHost = normalizeHost(c.VisionHost)
	c.TranscriptionHost = normalizeHost(c.TranscriptionHost)
	if c.APIKey == "" {
		c.APIKey = "none"
	}
}

func normalizeHost(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.ChatHost == "" {
		return errors.New("ai config: ChatHost is required")
	}
	if c.VisionHost == "" {
		return errors.New("ai config: VisionHost is required")
	}
	if c.TranscriptionHost == "" {
		return errors.New("ai config: TranscriptionHost is required")
	}
	if c.ChatModel == "" {
		return errors.New("ai config: ChatModel is required")
	}
	if c.VisionModel == "" {
		return errors.New("ai config: VisionModel is required")
	}
	if c.TranscriptionModel == "" {
		return errors.New("ai config: TranscriptionModel is required")
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return errors.New("ai config: MinConfidence must be between 0 and 1")
	}
	if c.MaxLabels < 1 {
		return errors.New("ai config: MaxLabels must be positive")
	}
	return nil
}
