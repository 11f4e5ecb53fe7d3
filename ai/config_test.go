package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434/v1", cfg.ChatHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.VisionHost)
	assert.Equal(t, "http://localhost:11434/v1", cfg.TranscriptionHost)
	assert.Equal(t, 0.4, cfg.MinConfidence)
	assert.Equal(t, 10, cfg.MaxLabels)
	require.NoError(t, cfg.Validate())
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.ChatHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.VisionHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.TranscriptionHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithChatHost("http://chat:8080/v1"),
			WithVisionHost("http://vision:9090/v1"),
			WithTranscriptionHost("http://whisper:9000/v1"),
		)

		assert.Equal(t, "http://chat:8080/v1", cfg.ChatHost)
		assert.Equal(t, "http://vision:9090/v1", cfg.VisionHost)
		assert.Equal(t, "http://whisper:9000/v1", cfg.TranscriptionHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithChatModel("gpt-4o-mini"),
			WithVisionModel("gpt-4o"),
			WithTranscriptionModel("whisper-large"),
			WithAPIKey("sk-test"),
			WithMinConfidence(0.6),
			WithMaxLabels(5),
		)

		assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
		assert.Equal(t, "gpt-4o", cfg.VisionModel)
		assert.Equal(t, "whisper-large", cfg.TranscriptionModel)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, 0.6, cfg.MinConfidence)
		assert.Equal(t, 5, cfg.MaxLabels)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		expected string
	}{
		{"already has /v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
		{"missing /v1", "http://localhost:11434", "http://localhost:11434/v1"},
		{"has trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"empty host", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{ChatHost: tt.host, VisionHost: tt.host, TranscriptionHost: tt.host}

			cfg.Normalize()

			assert.Equal(t, tt.expected, cfg.ChatHost)
			assert.Equal(t, tt.expected, cfg.VisionHost)
			assert.Equal(t, tt.expected, cfg.TranscriptionHost)
			assert.Equal(t, "none", cfg.APIKey)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"missing chat host", func(c *Config) { c.ChatHost = "" }, "ChatHost"},
		{"missing vision host", func(c *Config) { c.VisionHost = "" }, "VisionHost"},
		{"missing transcription host", func(c *Config) { c.TranscriptionHost = "" }, "TranscriptionHost"},
		{"missing chat model", func(c *Config) { c.ChatModel = "" }, "ChatModel"},
		{"missing vision model", func(c *Config) { c.VisionModel = "" }, "VisionModel"},
		{"missing transcription model", func(c *Config) { c.TranscriptionModel = "" }, "TranscriptionModel"},
		{"confidence too high", func(c *Config) { c.MinConfidence = 1.5 }, "MinConfidence"},
		{"confidence negative", func(c *Config) { c.MinConfidence = -0.1 }, "MinConfidence"},
		{"confidence at boundary", func(c *Config) { c.MinConfidence = 1 }, ""},
		{"no labels", func(c *Config) { c.MaxLabels = 0 }, "MaxLabels"},
		{"host normalized", func(c *Config) { c.ChatHost = "http://chat:1234" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
