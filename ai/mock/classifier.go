package mock

import (
	"context"
	"sync"

	"github.com/poiesic/glimpse/ai"
)

// MockClassifier is a test double for ai.VisualClassifier.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, labels are looked up by the image bytes.
	ClassifyFunc func(ctx context.Context, img ai.Image) ([]ai.Label, error)

	mu        sync.Mutex
	labels    map[string][]ai.Label
	callCount int
}

// NewMockClassifier creates a mock classifier that recognizes nothing.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{labels: make(map[string][]ai.Label)}
}

// WithClassifyFunc sets custom classification behavior.
func (m *MockClassifier) WithClassifyFunc(fn func(ctx context.Context, img ai.Image) ([]ai.Label, error)) *MockClassifier {
	m.ClassifyFunc = fn
	return m
}

// SetLabels makes images whose bytes equal data classify as labels.
func (m *MockClassifier) SetLabels(data string, labels ...ai.Label) *MockClassifier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.labels[data] = labels
	return m
}

// Classify returns the labels registered for the image bytes.
func (m *MockClassifier) Classify(ctx context.Context, img ai.Image) ([]ai.Label, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.ClassifyFunc
	labels := m.labels[string(img.Data)]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, img)
	}
	return append([]ai.Label{}, labels...), nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom behavior.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.labels = make(map[string][]ai.Label)
	m.ClassifyFunc = nil
}
