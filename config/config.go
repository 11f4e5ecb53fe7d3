// Package config loads the glimpse configuration file.
//
// The file lives at $XDG_CONFIG_HOME/glimpse/config.yaml (default
// ~/.config/glimpse/config.yaml). A missing file yields the defaults.
// Environment variables override file values; command-line flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/poiesic/glimpse/activity"
	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/ai/nominatim"
	"github.com/poiesic/glimpse/geoindex"
	"github.com/poiesic/glimpse/ingestion"
	"github.com/poiesic/glimpse/search"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.yaml"

// Config represents the glimpse configuration.
type Config struct {
	DataDir  string         `yaml:"data_dir,omitempty"`
	Library  LibraryConfig  `yaml:"library"`
	AI       AIConfig       `yaml:"ai"`
	Geocoder GeocoderConfig `yaml:"geocoder"`
	Index    IndexConfig    `yaml:"index"`
	Search   SearchConfig   `yaml:"search"`
	Watch    WatchConfig    `yaml:"watch"`
}

// LibraryConfig lists the media roots and the files taken from them.
type LibraryConfig struct {
	Roots   []string `yaml:"roots,omitempty"`
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// AIConfig configures the OpenAI-compatible services.
type AIConfig struct {
	Host               string  `yaml:"host,omitempty"`
	ChatHost           string  `yaml:"chat_host,omitempty"`
	VisionHost         string  `yaml:"vision_host,omitempty"`
	TranscriptionHost  string  `yaml:"transcription_host,omitempty"`
	ChatModel          string  `yaml:"chat_model"`
	VisionModel        string  `yaml:"vision_model"`
	TranscriptionModel string  `yaml:"transcription_model"`
	APIKey             string  `yaml:"api_key,omitempty"`
	MinConfidence      float64 `yaml:"min_confidence"`
	MaxLabels          int     `yaml:"max_labels"`
	Transcribe         bool    `yaml:"transcribe"`
}

// GeocoderConfig configures the Nominatim geocoder.
type GeocoderConfig struct {
	BaseURL   string  `yaml:"base_url"`
	UserAgent string  `yaml:"user_agent"`
	RateLimit float64 `yaml:"rate_limit"`
}

// IndexConfig tunes the index builds.
type IndexConfig struct {
	GeohashPrecision    int     `yaml:"geohash_precision"`
	ActivityConcurrency int     `yaml:"activity_concurrency"`
	TranscriptWindow    float64 `yaml:"transcript_window_seconds"`
}

// SearchConfig tunes the search orchestrator.
type SearchConfig struct {
	RadiusKm           float64 `yaml:"radius_km"`
	LabelSkipThreshold int     `yaml:"label_skip_threshold"`
	DefaultLimit       int     `yaml:"default_limit"`
	MaxGapDays         int     `yaml:"max_gap_days"`
	ActivityLLM        bool    `yaml:"activity_llm"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	aiDefaults := ai.DefaultConfig()
	return &Config{
		AI: AIConfig{
			ChatHost:           aiDefaults.ChatHost,
			VisionHost:         aiDefaults.VisionHost,
			TranscriptionHost:  aiDefaults.TranscriptionHost,
			ChatModel:          aiDefaults.ChatModel,
			VisionModel:        aiDefaults.VisionModel,
			TranscriptionModel: aiDefaults.TranscriptionModel,
			MinConfidence:      aiDefaults.MinConfidence,
			MaxLabels:          aiDefaults.MaxLabels,
			Transcribe:         true,
		},
		Geocoder: GeocoderConfig{
			BaseURL:   nominatim.DefaultBaseURL,
			UserAgent: nominatim.DefaultUserAgent,
			RateLimit: 1,
		},
		Index: IndexConfig{
			GeohashPrecision:    geoindex.DefaultPrecision,
			ActivityConcurrency: activity.DefaultConcurrency,
			TranscriptWindow:    activity.DefaultTranscriptWindow,
		},
		Search: SearchConfig{
			RadiusKm:           search.DefaultRadiusKm,
			LabelSkipThreshold: search.DefaultLabelSkipThreshold,
			DefaultLimit:       search.DefaultLimit,
			MaxGapDays:         search.DefaultMaxGapDays,
		},
		Watch: WatchConfig{Debounce: ingestion.DefaultDebounce},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() (string, error) {
	if override := os.Getenv("GLIMPSE_CONFIG_DIR"); override != "" {
		return override, nil
	}

	var base string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		base = xdg
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "glimpse"), nil
}

// DefaultDataDir returns the platform-specific data directory.
func DefaultDataDir() (string, error) {
	if override := os.Getenv("GLIMPSE_DATA_DIR"); override != "" {
		return override, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "Glimpse"), nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "glimpse"), nil
	}
	return filepath.Join(home, ".local", "share", "glimpse"), nil
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads the configuration file from its default location.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the configuration from path, applies environment
// overrides and validates the result. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		if cfg.DataDir, err = DefaultDataDir(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides values from GLIMPSE_* environment variables.
func (c *Config) ApplyEnv() error {
	strVars := map[string]*string{
		"GLIMPSE_DATA_DIR":     &c.DataDir,
		"GLIMPSE_AI_HOST":      &c.AI.Host,
		"GLIMPSE_CHAT_MODEL":   &c.AI.ChatModel,
		"GLIMPSE_VISION_MODEL": &c.AI.VisionModel,
		"GLIMPSE_API_KEY":      &c.AI.APIKey,
		"GLIMPSE_GEOCODER_URL": &c.Geocoder.BaseURL,
	}
	for name, field := range strVars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("GLIMPSE_SEARCH_RADIUS_KM"); v != "" {
		km, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GLIMPSE_SEARCH_RADIUS_KM: %w", err)
		}
		c.Search.RadiusKm = km
	}
	if v := os.Getenv("GLIMPSE_ACTIVITY_LLM"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GLIMPSE_ACTIVITY_LLM: %w", err)
		}
		c.Search.ActivityLLM = enabled
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Index.GeohashPrecision < geoindex.MinPrecision || c.Index.GeohashPrecision > geoindex.MaxPrecision {
		return fmt.Errorf("config: geohash_precision must be between %d and %d", geoindex.MinPrecision, geoindex.MaxPrecision)
	}
	if c.Index.ActivityConcurrency < 1 {
		return errors.New("config: activity_concurrency must be positive")
	}
	if c.Index.TranscriptWindow <= 0 {
		return errors.New("config: transcript_window_seconds must be positive")
	}
	if c.Search.RadiusKm <= 0 {
		return errors.New("config: radius_km must be positive")
	}
	if c.Search.LabelSkipThreshold < 1 {
		return errors.New("config: label_skip_threshold must be positive")
	}
	if c.Search.DefaultLimit < 1 {
		return errors.New("config: default_limit must be positive")
	}
	if c.Search.MaxGapDays < 1 {
		return errors.New("config: max_gap_days must be positive")
	}
	if c.Watch.Debounce <= 0 {
		return errors.New("config: watch debounce must be positive")
	}
	return c.AIConfig().Validate()
}

// AIConfig converts the file settings into an ai.Config. Host, when set,
// fills every service host that is not set individually.
func (c *Config) AIConfig() *ai.Config {
	cfg := &ai.Config{
		ChatHost:           c.AI.ChatHost,
		VisionHost:         c.AI.VisionHost,
		TranscriptionHost:  c.AI.TranscriptionHost,
		ChatModel:          c.AI.ChatModel,
		VisionModel:        c.AI.VisionModel,
		TranscriptionModel: c.AI.TranscriptionModel,
		APIKey:             c.AI.APIKey,
		MinConfidence:      c.AI.MinConfidence,
		MaxLabels:          c.AI.MaxLabels,
	}
	if c.AI.Host != "" {
		for _, host := range []*string{&cfg.ChatHost, &cfg.VisionHost, &cfg.TranscriptionHost} {
			if *host == "" || *host == ai.DefaultConfig().ChatHost {
				*host = c.AI.Host
			}
		}
	}
	cfg.Normalize()
	return cfg
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
