// Package pipeline orchestrates the one-pass analysis run: load, clean,
// split, join, analyze, report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-events-insights/internal/analysis"
	"github.com/couchcryptid/weather-events-insights/internal/dataset"
	"github.com/couchcryptid/weather-events-insights/internal/domain"
	"github.com/couchcryptid/weather-events-insights/internal/observability"
	"github.com/couchcryptid/weather-events-insights/internal/report"
)

// Source yields the raw records to analyze.
type Source interface {
	Extract(ctx context.Context) ([]domain.RawEventRecord, error)
}

// ReportSink consumes the finished report.
type ReportSink interface {
	Write(ctx context.Context, rep *report.Report) error
}

// Settings carries the analysis parameters into the run.
type Settings struct {
	InputName         string
	DurationThreshold float64 // hours
	TopStates         int
	Forest            analysis.ClassifierConfig
}

// Pipeline wires the stages together with logging and metrics.
type Pipeline struct {
	source   Source
	geocoder domain.Geocoder // nil disables station enrichment
	sink     ReportSink
	logger   *slog.Logger
	metrics  *observability.Metrics
	settings Settings
	ready    atomic.Bool
}

// New creates a Pipeline. Pass a nil geocoder to disable station enrichment.
func New(source Source, geocoder domain.Geocoder, sink ReportSink, logger *slog.Logger, metrics *observability.Metrics, settings Settings) *Pipeline {
	return &Pipeline{
		source:   source,
		geocoder: geocoder,
		sink:     sink,
		logger:   logger,
		metrics:  metrics,
		settings: settings,
	}
}

// CheckReadiness returns nil once a run has completed, or an error describing
// why the report is not yet available.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("analysis has not completed yet")
	}
	return nil
}

// Run executes the full analysis once and hands the report to the sink.
func (p *Pipeline) Run(ctx context.Context) (*report.Report, error) {
	p.logger.Info("analysis started", "input", p.settings.InputName)
	p.metrics.RunRunning.Set(1)
	defer p.metrics.RunRunning.Set(0)

	rep := &report.Report{
		GeneratedAt:        time.Now().UTC(),
		Input:              p.settings.InputName,
		TailThresholdHours: p.settings.DurationThreshold,
	}

	var records []domain.RawEventRecord
	if err := p.timed(ctx, "load", func() error {
		var err error
		records, err = p.source.Extract(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	rep.Rows.Loaded = len(records)
	p.metrics.RowsLoaded.Add(float64(len(records)))

	var events []domain.WeatherEvent
	var stationRows []domain.Station
	_ = p.timed(ctx, "clean", func() error {
		events, stationRows = p.clean(records)
		return nil
	})
	rep.Rows.Events = len(events)
	rep.Rows.StationRows = len(stationRows)
	rep.Rows.Dropped = rep.Rows.Loaded - len(events)
	if len(events) == 0 {
		return nil, errors.New("no rows survived cleaning")
	}

	var joined []dataset.JoinedEvent
	if err := p.timed(ctx, "split", func() error {
		joined = p.split(ctx, rep, events, stationRows)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.timed(ctx, "analyze", func() error {
		p.analyze(rep, events, joined)
		return nil
	}); err != nil {
		return nil, err
	}

	if err := p.timed(ctx, "report", func() error {
		return p.sink.Write(ctx, rep)
	}); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}

	p.ready.Store(true)
	p.logger.Info("analysis complete",
		"events", rep.Rows.Events,
		"stations", rep.Rows.Stations,
		"dropped", rep.Rows.Dropped,
	)
	return rep, nil
}

// clean parses and recodes each raw row, skipping and counting defective rows
// rather than aborting the run.
func (p *Pipeline) clean(records []domain.RawEventRecord) ([]domain.WeatherEvent, []domain.Station) {
	events := make([]domain.WeatherEvent, 0, len(records))
	stationRows := make([]domain.Station, 0, len(records))

	for i := range records {
		event, station, err := domain.CleanRecord(records[i])
		if err != nil {
			p.logger.Warn("row rejected", "row", i+1, "event_id", records[i].EventID, "error", err)
			p.metrics.RowsDropped.Inc()
			continue
		}
		events = append(events, event)
		stationRows = append(stationRows, station)
		p.metrics.StationRowsSeen.Inc()
	}
	return events, stationRows
}

// split deduplicates the station table, verifies the uniqueness invariant,
// optionally enriches stations, and joins events back onto them.
func (p *Pipeline) split(ctx context.Context, rep *report.Report, events []domain.WeatherEvent, stationRows []domain.Station) []dataset.JoinedEvent {
	res := dataset.SplitStations(stationRows)
	rep.Rows.Stations = len(res.Stations)
	rep.Rows.DuplicateStations = res.Duplicates
	rep.Rows.ConflictStations = res.Conflicts

	if err := dataset.VerifyUniqueStations(res.Stations); err != nil {
		// SplitStations guarantees uniqueness; a failure here means the
		// dedup itself is broken, which is worth surfacing loudly.
		p.logger.Error("station uniqueness invariant violated", "error", err)
		rep.StationKeyUnique = false
	} else {
		rep.StationKeyUnique = true
	}

	if p.geocoder != nil {
		for i := range res.Stations {
			res.Stations[i] = domain.EnrichStationWithGeocoding(ctx, res.Stations[i], p.geocoder, p.logger)
		}
	}

	joined, dropped := dataset.Join(events, res.Stations)
	rep.Rows.Joined = len(joined)
	rep.Rows.JoinDropped = dropped
	p.metrics.JoinDropped.Add(float64(dropped))
	return joined
}

// analyze fills in the statistical sections of the report.
func (p *Pipeline) analyze(rep *report.Report, events []domain.WeatherEvent, joined []dataset.JoinedEvent) {
	rep.CountsByType = dataset.CountByType(events)
	rep.CountsBySeverity = severityCounts(events)
	rep.TopStates = dataset.TopStates(joined, p.settings.TopStates)

	durations := dataset.DurationsHours(events)
	rep.DurationsHours = durations
	rep.Durations = analysis.Describe(durations)

	severe := dataset.DurationsHours(dataset.FilterBySeverity(events, domain.SeveritySevere))
	rep.SevereDurations = analysis.Describe(severe)

	if zt, err := analysis.ZTest(severe, rep.Durations.Mean); err != nil {
		rep.ZTestSkipped = err.Error()
		p.logger.Warn("z-test skipped", "error", err)
	} else {
		rep.ZTest = &zt
	}

	if tail, err := analysis.TailProbability(durations, p.settings.DurationThreshold); err != nil {
		rep.TailSkipped = err.Error()
		p.logger.Warn("tail probability skipped", "error", err)
	} else {
		rep.TailProbability = tail
	}

	samples := analysis.SeveritySamples(joined)
	if ev, err := analysis.TrainAndEvaluate(samples, p.settings.Forest); err != nil {
		rep.ClassifierSkipped = err.Error()
		p.logger.Warn("classifier skipped", "samples", len(samples), "error", err)
	} else {
		rep.Classifier = &ev
	}
}

// timed runs one stage, recording its duration and logging completion.
func (p *Pipeline) timed(ctx context.Context, stage string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.StageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
	if err != nil {
		p.logger.Error("stage failed", "stage", stage, "duration", elapsed, "error", err)
		return err
	}
	p.logger.Debug("stage complete", "stage", stage, "duration", elapsed)
	return nil
}

// severityCounts converts the typed severity tally to string keys for the report.
func severityCounts(events []domain.WeatherEvent) map[string]int {
	counts := dataset.CountBySeverity(events)
	out := make(map[string]int, len(counts))
	for sev, n := range counts {
		out[string(sev)] = n
	}
	return out
}
