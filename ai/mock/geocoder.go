package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
)

// MockGeocoder is a test double for ai.Geocoder backed by a gazetteer map.
type MockGeocoder struct {
	// GeocodeFunc is called by Geocode if set.
	GeocodeFunc func(ctx context.Context, query string) (*core.Coordinate, error)

	mu      sync.Mutex
	places  map[string]core.Coordinate
	queries []string
}

// NewMockGeocoder creates a geocoder that knows no places.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{places: make(map[string]core.Coordinate)}
}

// AddPlace registers a place. Lookups are case-insensitive.
func (m *MockGeocoder) AddPlace(name string, lat, lon float64) *MockGeocoder {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places[strings.ToLower(strings.TrimSpace(name))] = core.Coordinate{Latitude: lat, Longitude: lon}
	return m
}

// Geocode looks query up in the registered places.
func (m *MockGeocoder) Geocode(ctx context.Context, query string) (*core.Coordinate, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	coord, ok := m.places[strings.ToLower(strings.TrimSpace(query))]
	m.mu.Unlock()

	if m.GeocodeFunc != nil {
		return m.GeocodeFunc(ctx, query)
	}
	if !ok {
		return nil, ai.ErrNoGeocodeResult
	}
	return &coord, nil
}

// Queries returns every query received, in order.
func (m *MockGeocoder) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
