package mock

import (
	"context"
	"sync"

	"github.com/poiesic/glimpse/ai"
)

// MockChatService is a test double for ai.ChatService.
// It allows custom behavior injection via function fields.
type MockChatService struct {
	// CompleteFunc is called by Complete if set.
	// If nil, scripted replies are returned in order.
	CompleteFunc func(ctx context.Context, req ai.ChatRequest) (string, error)

	mu        sync.Mutex
	replies   []string
	requests  []ai.ChatRequest
	callCount int
}

// NewMockChatService creates a mock chat service that replies with an empty string.
func NewMockChatService() *MockChatService {
	return &MockChatService{}
}

// WithCompleteFunc sets custom completion behavior.
func (m *MockChatService) WithCompleteFunc(fn func(ctx context.Context, req ai.ChatRequest) (string, error)) *MockChatService {
	m.CompleteFunc = fn
	return m
}

// WithReplies scripts the replies. Each call consumes one; the last repeats.
func (m *MockChatService) WithReplies(replies ...string) *MockChatService {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = replies
	return m
}

// Complete records the request and returns the next scripted reply.
func (m *MockChatService) Complete(ctx context.Context, req ai.ChatRequest) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.requests = append(m.requests, req)
	fn := m.CompleteFunc
	var reply string
	if len(m.replies) > 0 {
		reply = m.replies[0]
		if len(m.replies) > 1 {
			m.replies = m.replies[1:]
		}
	}
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return reply, nil
}

// CallCount returns the number of times Complete was called.
func (m *MockChatService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Requests returns every request received, in order.
func (m *MockChatService) Requests() []ai.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ai.ChatRequest(nil), m.requests...)
}

// Reset clears the call count, recorded requests and custom behavior.
func (m *MockChatService) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.requests = nil
	m.replies = nil
	m.CompleteFunc = nil
}
