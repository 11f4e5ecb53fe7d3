package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"GLIMPSE_CONFIG_DIR", "GLIMPSE_DATA_DIR", "GLIMPSE_AI_HOST", "GLIMPSE_CHAT_MODEL",
		"GLIMPSE_VISION_MODEL", "GLIMPSE_API_KEY", "GLIMPSE_GEOCODER_URL",
		"GLIMPSE_SEARCH_RADIUS_KM", "GLIMPSE_ACTIVITY_LLM",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	clearEnv(t)
	t.Setenv("GLIMPSE_DATA_DIR", "/tmp/glimpse-data")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/glimpse-data", cfg.DataDir)
	assert.Equal(t, 10.0, cfg.Search.RadiusKm)
	assert.Equal(t, 1, cfg.Search.LabelSkipThreshold)
	assert.Equal(t, 6, cfg.Index.GeohashPrecision)
	assert.Equal(t, 3, cfg.Index.ActivityConcurrency)
	assert.Equal(t, 30.0, cfg.Index.TranscriptWindow)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.True(t, cfg.AI.Transcribe)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir: /srv/glimpse
library:
  roots: [/photos, /videos]
  exclude: ["**/raw/**"]
ai:
  host: http://gpu-box:11434
  chat_model: llama3.1:8b
search:
  radius_km: 25
  activity_llm: true
watch:
  debounce: 500ms
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/glimpse", cfg.DataDir)
	assert.Equal(t, []string{"/photos", "/videos"}, cfg.Library.Roots)
	assert.Equal(t, []string{"**/raw/**"}, cfg.Library.Exclude)
	assert.Equal(t, 25.0, cfg.Search.RadiusKm)
	assert.True(t, cfg.Search.ActivityLLM)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, "qwen2.5vl:7b", cfg.AI.VisionModel, "unset keys keep their defaults")

	aiCfg := cfg.AIConfig()
	assert.Equal(t, "http://gpu-box:11434/v1", aiCfg.ChatHost)
	assert.Equal(t, "http://gpu-box:11434/v1", aiCfg.VisionHost)
	assert.Equal(t, "llama3.1:8b", aiCfg.ChatModel)
	assert.Equal(t, "none", aiCfg.APIKey)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/glimpse\nsearch:\n  radius_km: 25\n"), 0o644))

	t.Setenv("GLIMPSE_DATA_DIR", "/override")
	t.Setenv("GLIMPSE_SEARCH_RADIUS_KM", "3.5")
	t.Setenv("GLIMPSE_API_KEY", "sk-test")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/override", cfg.DataDir)
	assert.Equal(t, 3.5, cfg.Search.RadiusKm)
	assert.Equal(t, "sk-test", cfg.AIConfig().APIKey)

	t.Setenv("GLIMPSE_ACTIVITY_LLM", "sometimes")
	_, err = LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFile_Invalid(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		body string
	}{
		{"not yaml", "search: [radius"},
		{"precision", "index:\n  geohash_precision: 2\n"},
		{"radius", "search:\n  radius_km: 0\n"},
		{"threshold", "search:\n  label_skip_threshold: 0\n"},
		{"confidence", "ai:\n  min_confidence: 1.5\n"},
		{"debounce", "watch:\n  debounce: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			require.NoError(t, os.WriteFile(path, []byte("data_dir: /x\n"+tt.body), 0o644))
			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestConfigDir(t *testing.T) {
	clearEnv(t)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := ConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "glimpse"), dir)

	t.Setenv("GLIMPSE_CONFIG_DIR", "/custom")
	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom", FileName), path)
}

func TestSaveAndLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.DataDir = "/data"
	cfg.Library.Roots = []string{"/photos"}
	cfg.Watch.Debounce = 5 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Library.Roots, loaded.Library.Roots)
	assert.Equal(t, 5*time.Second, loaded.Watch.Debounce)
	assert.Equal(t, cfg.Search, loaded.Search)
}
