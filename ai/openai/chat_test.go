package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/glimpse/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/fake"
)

// recordingModel captures the messages it receives and replies from a script.
type recordingModel struct {
	replies  []string
	err      error
	messages [][]llms.MessageContent
	empty    bool
}

func (m *recordingModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = append(m.messages, messages)
	if m.err != nil {
		return nil, m.err
	}
	if m.empty {
		return &llms.ContentResponse{}, nil
	}
	reply := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: reply}}}, nil
}

func (m *recordingModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestChatService_Complete(t *testing.T) {
	chat := NewChatServiceWithModel(fake.NewFakeLLM([]string{"  Greece  "}))

	reply, err := chat.Complete(context.Background(), ai.ChatRequest{
		System: "You resolve places.",
		Prompt: "Where is Athens?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Greece", reply)
}

func TestChatService_Messages(t *testing.T) {
	model := &recordingModel{replies: []string{"ok"}}
	chat := NewChatServiceWithModel(model)

	_, err := chat.Complete(context.Background(), ai.ChatRequest{
		System: "system",
		Prompt: "describe",
		Images: []ai.Image{{Data: []byte{0xff, 0xd8}}, {MIMEType: "image/png", Data: []byte{0x89}}},
	})
	require.NoError(t, err)

	require.Len(t, model.messages, 1)
	msgs := model.messages[0]
	require.Len(t, msgs, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, msgs[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, msgs[1].Role)

	parts := msgs[1].Parts
	require.Len(t, parts, 3)
	first, ok := parts[0].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "image/jpeg", first.MIMEType)
	second, ok := parts[1].(llms.BinaryContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", second.MIMEType)
	assert.Equal(t, llms.TextPart("describe"), parts[2])
}

func TestChatService_NoSystemPrompt(t *testing.T) {
	model := &recordingModel{replies: []string{"ok"}}
	chat := NewChatServiceWithModel(model)

	_, err := chat.Complete(context.Background(), ai.ChatRequest{Prompt: "hi"})
	require.NoError(t, err)
	require.Len(t, model.messages[0], 1)
}

func TestChatService_Errors(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		boom := errors.New("connection refused")
		chat := NewChatServiceWithModel(&recordingModel{err: boom})

		_, err := chat.Complete(context.Background(), ai.ChatRequest{Prompt: "hi"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no choices", func(t *testing.T) {
		chat := NewChatServiceWithModel(&recordingModel{empty: true})

		_, err := chat.Complete(context.Background(), ai.ChatRequest{Prompt: "hi"})
		assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	})
}
