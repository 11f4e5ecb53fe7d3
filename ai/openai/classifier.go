package openai

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/poiesic/glimpse/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxClassifyAttempts bounds retries on malformed JSON.
const maxClassifyAttempts = 3

// VisualClassifier implements ai.VisualClassifier with a vision-capable chat model.
type VisualClassifier struct {
	client llms.Model
	logger *slog.Logger
}

// label is an internal type used for JSON unmarshaling.
type label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// classification is the wrapper structure for the model's JSON response.
type classification struct {
	Labels []label `json:"labels"`
}

func newVisualClassifier(config *ai.Config) (*VisualClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return NewVisualClassifierWithModel(client), nil
}

// NewVisualClassifier creates a classifier using the provided configuration.
//
// Returns ai.VisualClassifier interface to enforce abstraction.
func NewVisualClassifier(config *ai.Config) (ai.VisualClassifier, error) {
	return newVisualClassifier(config)
}

// NewVisualClassifierWithModel wraps an existing langchaingo model.
func NewVisualClassifierWithModel(client llms.Model) *VisualClassifier {
	return &VisualClassifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}
}

// Classify asks the model for labels and returns them most confident first.
// Confidences are clamped to [0, 1] and blank or repeated names dropped.
func (v *VisualClassifier) Classify(ctx context.Context, img ai.Image) ([]ai.Label, error) {
	content := buildMessages(classifierSystemPrompt, classifierUserPrompt, []ai.Image{img})

	var result classification
	var lastErr error
	for attempt := 0; attempt < maxClassifyAttempts; attempt++ {
		response, err := v.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			v.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			v.logger.Debug("no choices returned from model")
			return []ai.Label{}, nil
		}

		result = classification{}
		if err := ai.DecodeJSON(response.Choices[0].Content, &result); err != nil {
			lastErr = err
			v.logger.Warn("error parsing classifier response",
				"attempt", attempt+1,
				"response", response.Choices[0].Content,
				"err", err)
			continue
		}

		lastErr = nil
		break
	}

	if lastErr != nil {
		v.logger.Error("failed to parse classifier response after retries", "err", lastErr)
		return nil, lastErr
	}

	seen := make(map[string]bool, len(result.Labels))
	labels := make([]ai.Label, 0, len(result.Labels))
	for _, l := range result.Labels {
		name := strings.TrimSpace(l.Name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, ai.Label{Name: name, Confidence: min(max(l.Confidence, 0), 1)})
	}

	slices.SortStableFunc(labels, func(a, b ai.Label) int {
		switch {
		case a.Confidence > b.Confidence:
			return -1
		case a.Confidence < b.Confidence:
			return 1
		}
		return 0
	})

	v.logger.Debug("classified image", "labels", len(labels))
	return labels, nil
}
