package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so ambient environment does not
// leak into default assertions. Empty values are treated as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"INPUT_PATH", "OUTPUT_DIR", "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
		"SHUTDOWN_TIMEOUT", "FOREST_TREES", "TRAIN_RATIO", "SEED",
		"DURATION_THRESHOLD_HOURS", "TOP_STATES", "HISTOGRAM_BINS",
		"MAPBOX_TOKEN", "MAPBOX_ENABLED", "MAPBOX_TIMEOUT", "MAPBOX_CACHE_SIZE",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/weather_events.csv", cfg.InputPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, 200, cfg.ForestTrees)
	assert.InDelta(t, 0.8, cfg.TrainRatio, 1e-9)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.InDelta(t, 6.0, cfg.DurationThreshold, 1e-9)
	assert.Equal(t, 10, cfg.TopStates)
	assert.Equal(t, 24, cfg.HistogramBins)

	assert.False(t, cfg.MapboxEnabled)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_PATH", "/data/events.csv")
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("FOREST_TREES", "500")
	t.Setenv("TRAIN_RATIO", "0.7")
	t.Setenv("SEED", "7")
	t.Setenv("DURATION_THRESHOLD_HOURS", "12")
	t.Setenv("TOP_STATES", "5")
	t.Setenv("HISTOGRAM_BINS", "48")
	t.Setenv("MAPBOX_TOKEN", "pk.secret")
	t.Setenv("MAPBOX_TIMEOUT", "2s")
	t.Setenv("MAPBOX_CACHE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/events.csv", cfg.InputPath)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 500, cfg.ForestTrees)
	assert.InDelta(t, 0.7, cfg.TrainRatio, 1e-9)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.InDelta(t, 12.0, cfg.DurationThreshold, 1e-9)
	assert.Equal(t, 5, cfg.TopStates)
	assert.Equal(t, 48, cfg.HistogramBins)
	assert.True(t, cfg.MapboxEnabled, "a token implies geocoding is on")
	assert.Equal(t, "pk.secret", cfg.MapboxToken)
	assert.Equal(t, 2*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 50, cfg.MapboxCacheSize)
}

func TestLoad_MapboxToggle(t *testing.T) {
	t.Run("token present but explicitly disabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPBOX_TOKEN", "pk.secret")
		t.Setenv("MAPBOX_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.MapboxEnabled)
	})

	t.Run("enabled without token", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MAPBOX_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
	})
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad shutdown timeout", "SHUTDOWN_TIMEOUT", "soon"},
		{"negative shutdown timeout", "SHUTDOWN_TIMEOUT", "-5s"},
		{"non-numeric trees", "FOREST_TREES", "many"},
		{"zero trees", "FOREST_TREES", "0"},
		{"train ratio of one", "TRAIN_RATIO", "1"},
		{"train ratio of zero", "TRAIN_RATIO", "0"},
		{"non-numeric seed", "SEED", "abc"},
		{"zero threshold", "DURATION_THRESHOLD_HOURS", "0"},
		{"zero bins", "HISTOGRAM_BINS", "0"},
		{"bad mapbox timeout", "MAPBOX_TIMEOUT", "later"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}
