package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all tool settings, populated from environment variables.
type Config struct {
	InputPath string
	OutputDir string
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration

	// Analysis parameters.
	ForestTrees       int
	TrainRatio        float64
	Seed              int64
	DurationThreshold float64 // hours, for the tail probability
	TopStates         int
	HistogramBins     int

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	forestTrees, err := parseInt("FOREST_TREES", 200)
	if err != nil {
		return nil, err
	}
	trainRatio, err := parseFloat("TRAIN_RATIO", 0.8)
	if err != nil {
		return nil, err
	}
	seed, err := parseInt64("SEED", 42)
	if err != nil {
		return nil, err
	}
	durationThreshold, err := parseFloat("DURATION_THRESHOLD_HOURS", 6)
	if err != nil {
		return nil, err
	}
	topStates, err := parseInt("TOP_STATES", 10)
	if err != nil {
		return nil, err
	}
	histogramBins, err := parseInt("HISTOGRAM_BINS", 24)
	if err != nil {
		return nil, err
	}
	mapboxCacheSize, err := parseInt("MAPBOX_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		InputPath:         envOrDefault("INPUT_PATH", "data/weather_events.csv"),
		OutputDir:         envOrDefault("OUTPUT_DIR", "out"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		ForestTrees:       forestTrees,
		TrainRatio:        trainRatio,
		Seed:              seed,
		DurationThreshold: durationThreshold,
		TopStates:         topStates,
		HistogramBins:     histogramBins,
		MapboxToken:       mapboxToken,
		MapboxEnabled:     mapboxEnabled,
		MapboxTimeout:     mapboxTimeout,
		MapboxCacheSize:   mapboxCacheSize,
	}

	if cfg.InputPath == "" {
		return nil, errors.New("INPUT_PATH is required")
	}
	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.ForestTrees <= 0 {
		return nil, errors.New("FOREST_TREES must be positive")
	}
	if cfg.TrainRatio <= 0 || cfg.TrainRatio >= 1 {
		return nil, errors.New("TRAIN_RATIO must be in (0, 1)")
	}
	if cfg.DurationThreshold <= 0 {
		return nil, errors.New("DURATION_THRESHOLD_HOURS must be positive")
	}
	if cfg.HistogramBins <= 0 {
		return nil, errors.New("HISTOGRAM_BINS must be positive")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseInt64(key string, fallback int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
