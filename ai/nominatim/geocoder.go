// Package nominatim implements ai.Geocoder against the OpenStreetMap
// Nominatim search API.
//
// The public instance allows at most one request per second and requires an
// identifying User-Agent, so every request waits on a token-bucket limiter.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies glimpse to the Nominatim operators.
	DefaultUserAgent = "glimpse-media-search/1.0"

	defaultTimeout = 15 * time.Second
)

// ErrUserAgentRequired is returned when the User-Agent is cleared.
var ErrUserAgentRequired = errors.New("nominatim: user agent is required")

// Geocoder implements ai.Geocoder using Nominatim.
type Geocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

var _ ai.Geocoder = (*Geocoder)(nil)

// Option configures a Geocoder.
type Option func(*Geocoder) error

// WithBaseURL points the geocoder at a self-hosted instance.
func WithBaseURL(base string) Option {
	return func(g *Geocoder) error {
		if _, err := url.Parse(base); err != nil {
			return err
		}
		g.baseURL = strings.TrimSuffix(base, "/")
		return nil
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(g *Geocoder) error {
		if strings.TrimSpace(ua) == "" {
			return ErrUserAgentRequired
		}
		g.userAgent = ua
		return nil
	}
}

// WithRateLimit sets the sustained request rate. Self-hosted instances can
// raise it; zero or negative disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(g *Geocoder) error {
		if perSecond <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 1)
			return nil
		}
		g.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		return nil
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Geocoder) error {
		g.client = client
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Geocoder) error {
		g.logger = logger
		return nil
	}
}

// NewGeocoder creates a geocoder limited to one request per second.
func NewGeocoder(opts ...Option) (*Geocoder, error) {
	g := &Geocoder{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		client:    &http.Client{Timeout: defaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		logger:    slog.Default().With("component", "nominatim"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the coordinate of the best match for query.
func (g *Geocoder) Geocode(ctx context.Context, query string) (*core.Coordinate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ai.ErrNoGeocodeResult
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim: %s", resp.Status)
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}
	if len(places) == 0 {
		g.logger.Debug("no geocode result", "query", query)
		return nil, ai.ErrNoGeocodeResult
	}

	lat, errLat := strconv.ParseFloat(places[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(places[0].Lon, 64)
	if errLat != nil || errLon != nil {
		return nil, fmt.Errorf("%w: bad coordinate %q,%q", ai.ErrInvalidResponse, places[0].Lat, places[0].Lon)
	}
	if err := core.ValidateCoordinate(lat, lon); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrInvalidResponse, err)
	}

	g.logger.Debug("geocoded", "query", query, "match", places[0].DisplayName, "lat", lat, "lon", lon)
	return &core.Coordinate{Latitude: lat, Longitude: lon}, nil
}
