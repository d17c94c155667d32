// Package report renders the analysis results for human reading: PNG plots,
// a plain-text summary, and a JSON twin for machine consumption.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/weather-events-insights/internal/analysis"
	"github.com/couchcryptid/weather-events-insights/internal/dataset"
	"github.com/couchcryptid/weather-events-insights/internal/observability"
)

// RowCounts tracks how many rows survived each reshaping step.
type RowCounts struct {
	Loaded            int `json:"loaded"`
	Dropped           int `json:"dropped"`
	Events            int `json:"events"`
	StationRows       int `json:"station_rows"`
	Stations          int `json:"stations"`
	DuplicateStations int `json:"duplicate_stations"`
	ConflictStations  int `json:"conflicting_stations"`
	Joined            int `json:"joined"`
	JoinDropped       int `json:"join_dropped"`
}

// Report is the complete result of one analysis run.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Input       string    `json:"input"`

	Rows             RowCounts `json:"rows"`
	StationKeyUnique bool      `json:"station_key_unique"`

	CountsByType     map[string]int       `json:"counts_by_type"`
	CountsBySeverity map[string]int       `json:"counts_by_severity"`
	TopStates        []dataset.StateCount `json:"top_states"`

	Durations       analysis.SummaryStats `json:"durations_hours"`
	SevereDurations analysis.SummaryStats `json:"severe_durations_hours"`
	ZTest           *analysis.ZTestResult `json:"z_test,omitempty"`
	ZTestSkipped    string                `json:"z_test_skipped,omitempty"`

	TailThresholdHours float64 `json:"tail_threshold_hours"`
	TailProbability    float64 `json:"tail_probability,omitempty"`
	TailSkipped        string  `json:"tail_skipped,omitempty"`

	Classifier        *analysis.Evaluation `json:"classifier,omitempty"`
	ClassifierSkipped string               `json:"classifier_skipped,omitempty"`

	Plots []string `json:"plots"`

	// DurationsHours carries the raw values for the histogram; it is not
	// serialized.
	DurationsHours []float64 `json:"-"`
}

// Writer renders a Report into an output directory.
type Writer struct {
	outDir  string
	bins    int
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewWriter creates a report writer targeting outDir.
func NewWriter(outDir string, bins int, logger *slog.Logger, metrics *observability.Metrics) *Writer {
	return &Writer{outDir: outDir, bins: bins, logger: logger, metrics: metrics}
}

// Write renders the plots and writes report.txt and report.json. The report's
// Plots field is populated with the rendered file names.
func (w *Writer) Write(ctx context.Context, rep *Report) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	plots, err := w.renderPlots(ctx, rep)
	if err != nil {
		return err
	}
	rep.Plots = plots

	if err := w.writeJSON(rep); err != nil {
		return err
	}
	if err := w.writeText(rep); err != nil {
		return err
	}

	w.logger.Info("report written", "dir", w.outDir, "plots", len(plots))
	return nil
}

func (w *Writer) writeJSON(rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')
	path := filepath.Join(w.outDir, "report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeText(rep *Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Weather Events Insights — %s\n", rep.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Input: %s\n\n", rep.Input)

	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rows loaded\t%d\n", rep.Rows.Loaded)
	fmt.Fprintf(tw, "rows dropped in cleaning\t%d\n", rep.Rows.Dropped)
	fmt.Fprintf(tw, "events\t%d\n", rep.Rows.Events)
	fmt.Fprintf(tw, "stations (unique)\t%d\n", rep.Rows.Stations)
	fmt.Fprintf(tw, "duplicate station rows\t%d\n", rep.Rows.DuplicateStations)
	fmt.Fprintf(tw, "conflicting station rows\t%d\n", rep.Rows.ConflictStations)
	fmt.Fprintf(tw, "joined events\t%d\n", rep.Rows.Joined)
	fmt.Fprintf(tw, "events without station\t%d\n", rep.Rows.JoinDropped)
	fmt.Fprintf(tw, "station key unique\t%t\n", rep.StationKeyUnique)
	tw.Flush()

	b.WriteString("\nEvents by severity:\n")
	tw = tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, sev := range severityOrder(rep.CountsBySeverity) {
		fmt.Fprintf(tw, "  %s\t%d\n", sev, rep.CountsBySeverity[sev])
	}
	tw.Flush()

	fmt.Fprintf(&b, "\nDuration (hours): n=%d mean=%.3f sd=%.3f\n",
		rep.Durations.N, rep.Durations.Mean, rep.Durations.StdDev)
	fmt.Fprintf(&b, "Severe duration (hours): n=%d mean=%.3f sd=%.3f\n",
		rep.SevereDurations.N, rep.SevereDurations.Mean, rep.SevereDurations.StdDev)

	if rep.ZTest != nil {
		fmt.Fprintf(&b, "\nZ-test (severe mean duration vs overall mean %.3f h):\n", rep.ZTest.Mu0)
		fmt.Fprintf(&b, "  z=%.4f  upper-tail p=%.6f\n", rep.ZTest.Z, rep.ZTest.PValue)
	} else if rep.ZTestSkipped != "" {
		fmt.Fprintf(&b, "\nZ-test skipped: %s\n", rep.ZTestSkipped)
	}
	if rep.TailSkipped != "" {
		fmt.Fprintf(&b, "Tail probability skipped: %s\n", rep.TailSkipped)
	} else {
		fmt.Fprintf(&b, "P(duration > %.1f h) ≈ %.6f (normal approximation)\n",
			rep.TailThresholdHours, rep.TailProbability)
	}

	w.writeClassifierText(&b, rep)

	if len(rep.Plots) > 0 {
		b.WriteString("\nPlots:\n")
		for _, p := range rep.Plots {
			fmt.Fprintf(&b, "  %s\n", p)
		}
	}

	path := filepath.Join(w.outDir, "report.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeClassifierText(b *strings.Builder, rep *Report) {
	if rep.Classifier == nil {
		if rep.ClassifierSkipped != "" {
			fmt.Fprintf(b, "\nClassifier skipped: %s\n", rep.ClassifierSkipped)
		}
		return
	}

	ev := rep.Classifier
	fmt.Fprintf(b, "\nSeverity classifier (train=%d test=%d): accuracy=%.4f misclassification=%.4f\n",
		ev.TrainSize, ev.TestSize, ev.Accuracy, ev.Misclass)

	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  class\tsupport\tprecision\trecall\n")
	for _, r := range ev.PerClass {
		fmt.Fprintf(tw, "  %s\t%d\t%.4f\t%.4f\n", r.Class, r.Support, r.Precision, r.Recall)
	}
	tw.Flush()

	b.WriteString("\nConfusion matrix (rows=actual, cols=predicted):\n")
	tw = tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  \t%s\n", strings.Join(ev.Classes, "\t"))
	for i, class := range ev.Classes {
		fmt.Fprintf(tw, "  %s", class)
		for j := range ev.Classes {
			fmt.Fprintf(tw, "\t%d", ev.Confusion[i][j])
		}
		fmt.Fprintln(tw)
	}
	tw.Flush()
}

// severityOrder returns the report's severity keys with the ranked labels
// first in ascending order, then any unranked labels alphabetically.
func severityOrder(counts map[string]int) []string {
	ranked := []string{"Light", "Moderate", "Heavy", "Severe"}
	out := make([]string, 0, len(counts))
	seen := make(map[string]bool, len(ranked))
	for _, s := range ranked {
		if _, ok := counts[s]; ok {
			out = append(out, s)
			seen[s] = true
		}
	}
	var rest []string
	for s := range counts {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
