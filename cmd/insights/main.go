// Command insights runs the one-pass weather-events analysis: load the CSV,
// clean and reshape it into event and station tables, render exploratory
// plots, run the duration hypothesis test, fit the severity classifier, and
// write the report. The serve command additionally exposes the report and
// Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	httpadapter "github.com/couchcryptid/weather-events-insights/internal/adapter/http"
	"github.com/couchcryptid/weather-events-insights/internal/adapter/mapbox"
	"github.com/couchcryptid/weather-events-insights/internal/analysis"
	"github.com/couchcryptid/weather-events-insights/internal/config"
	"github.com/couchcryptid/weather-events-insights/internal/dataset"
	"github.com/couchcryptid/weather-events-insights/internal/domain"
	"github.com/couchcryptid/weather-events-insights/internal/observability"
	"github.com/couchcryptid/weather-events-insights/internal/pipeline"
	"github.com/couchcryptid/weather-events-insights/internal/report"
)

type cli struct {
	Run   runCmd   `cmd:"" default:"withargs" help:"Run the analysis once and exit."`
	Serve serveCmd `cmd:"" help:"Run the analysis, then serve the report and metrics until signalled."`
}

type commonFlags struct {
	Input  string `help:"Path to the weather events CSV (overrides INPUT_PATH)." type:"path"`
	Output string `help:"Output directory for plots and reports (overrides OUTPUT_DIR)." type:"path"`
}

type runCmd struct {
	commonFlags
}

type serveCmd struct {
	commonFlags
	Addr string `help:"HTTP listen address (overrides HTTP_ADDR)."`
}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("insights"),
		kong.Description("One-pass exploratory analysis of a weather-events dataset."),
		kong.UsageOnError(),
	)
	kctx.FatalIfErrorf(kctx.Run())
}

// app holds the wired components shared by both commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *observability.Metrics
	pipeline *pipeline.Pipeline
}

func buildApp(flags commonFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.Input != "" {
		cfg.InputPath = flags.Input
	}
	if flags.Output != "" {
		cfg.OutputDir = flags.Output
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Geocoding is feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN.
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	sink := report.NewWriter(cfg.OutputDir, cfg.HistogramBins, logger, metrics)
	p := pipeline.New(
		dataset.FileSource{Path: cfg.InputPath},
		geocoder,
		sink,
		logger,
		metrics,
		pipeline.Settings{
			InputName:         cfg.InputPath,
			DurationThreshold: cfg.DurationThreshold,
			TopStates:         cfg.TopStates,
			Forest: analysis.ClassifierConfig{
				Trees:      cfg.ForestTrees,
				TrainRatio: cfg.TrainRatio,
				Seed:       cfg.Seed,
			},
		},
	)

	return &app{cfg: cfg, logger: logger, metrics: metrics, pipeline: p}, nil
}

func (c *runCmd) Run() error {
	a, err := buildApp(c.commonFlags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := a.pipeline.Run(ctx); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	return nil
}

func (c *serveCmd) Run() error {
	a, err := buildApp(c.commonFlags)
	if err != nil {
		return err
	}
	if c.Addr != "" {
		a.cfg.HTTPAddr = c.Addr
	}

	srv := httpadapter.NewServer(a.cfg.HTTPAddr, a.pipeline, a.cfg.OutputDir, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("http server error", "error", err)
		}
	}()

	if _, err := a.pipeline.Run(ctx); err != nil {
		a.logger.Error("analysis error", "error", err)
	}

	<-ctx.Done()
	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", "error", err)
	}

	a.logger.Info("shutdown complete")
	return nil
}
