package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/glimpse/ai"
)

// SpeechTranscriber implements ai.SpeechTranscriber against the
// OpenAI-compatible /audio/transcriptions endpoint.
type SpeechTranscriber struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func newSpeechTranscriber(config *ai.Config) (*SpeechTranscriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SpeechTranscriber{
		endpoint: strings.TrimSuffix(config.TranscriptionHost, "/") + "/audio/transcriptions",
		model:    config.TranscriptionModel,
		apiKey:   config.APIKey,
		client:   &http.Client{Timeout: 2 * time.Minute},
		logger:   slog.Default().With("component", "openai-transcriber"),
	}, nil
}

// NewSpeechTranscriber creates a transcriber using the provided configuration.
//
// Returns ai.SpeechTranscriber interface to enforce abstraction.
func NewSpeechTranscriber(config *ai.Config) (ai.SpeechTranscriber, error) {
	return newSpeechTranscriber(config)
}

// Transcribe uploads audio as multipart form data and returns the decoded text.
func (s *SpeechTranscriber) Transcribe(ctx context.Context, audio ai.Audio) (*ai.Transcript, error) {
	body, contentType, err := s.buildForm(audio)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("transcription request failed", "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcription failed: %s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}

	s.logger.Debug("transcribed audio", "bytes", len(audio.Data), "chars", len(result.Text))
	return &ai.Transcript{
		Text:     strings.TrimSpace(result.Text),
		Language: result.Language,
	}, nil
}

func (s *SpeechTranscriber) buildForm(audio ai.Audio) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", s.model); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}

	part, err := w.CreateFormFile("file", "clip"+audioExtension(audio.MIMEType))
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func audioExtension(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	case "audio/flac":
		return ".flac"
	default:
		return ".wav"
	}
}
