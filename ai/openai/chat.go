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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/glimpse/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatService implements ai.ChatService using OpenAI-compatible chat APIs.
type ChatService struct {
	client llms.Model
	logger *slog.Logger
}

// newChatService is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatService(config *ai.Config) (*ChatService, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return NewChatServiceWithModel(client), nil
}

// NewChatService creates a new chat service using the provided configuration.
//
// Returns ai.ChatService interface to enforce abstraction.
func NewChatService(config *ai.Config) (ai.ChatService, error) {
	return newChatService(config)
}

// NewChatServiceWithModel wraps an existing langchaingo model.
func NewChatServiceWithModel(client llms.Model) *ChatService {
	return &ChatService{
		client: client,
		logger: slog.Default().With("component", "openai-chat"),
	}
}

// Complete sends req as a system + user message pair and returns the first choice.
func (c *ChatService) Complete(ctx context.Context, req ai.ChatRequest) (string, error) {
	content := buildMessages(req.System, req.Prompt, req.Images)

	opts := []llms.CallOption{llms.WithTemperature(0.0)}
	if req.JSON {
		opts = append(opts, llms.WithJSONMode())
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}

	response, err := c.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", ai.ErrEmptyResponse
	}

	return strings.TrimSpace(response.Choices[0].Content), nil
}

// buildMessages assembles the langchaingo message list. Images are attached
// to the human message ahead of the text.
func buildMessages(system, prompt string, images []ai.Image) []llms.MessageContent {
	var content []llms.MessageContent
	if system != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}

	parts := make([]llms.ContentPart, 0, len(images)+1)
	for _, img := range images {
		mimeType := img.MIMEType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		parts = append(parts, llms.BinaryPart(mimeType, img.Data))
	}
	parts = append(parts, llms.TextPart(prompt))

	return append(content, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: parts,
	})
}
