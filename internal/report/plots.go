package report

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// maxHistogramHours clamps the duration histogram's domain. A handful of
// multi-day outliers would otherwise squash the bulk of the distribution
// into a single bar.
const maxHistogramHours = 48

// renderPlots writes the exploratory charts and returns their file names.
func (w *Writer) renderPlots(ctx context.Context, rep *Report) ([]string, error) {
	type job struct {
		name   string
		render func(path string) error
	}

	typeLabels, typeValues := sortedCounts(rep.CountsByType)
	sevLabels, sevValues := orderedSeverityCounts(rep.CountsBySeverity)

	stateLabels := make([]string, 0, len(rep.TopStates))
	stateValues := make([]float64, 0, len(rep.TopStates))
	for _, sc := range rep.TopStates {
		stateLabels = append(stateLabels, sc.State)
		stateValues = append(stateValues, float64(sc.Count))
	}

	jobs := []job{
		{"events_by_type.png", func(path string) error {
			return barChart(path, "Events by Type", "events", typeLabels, typeValues)
		}},
		{"events_by_severity.png", func(path string) error {
			return barChart(path, "Events by Severity", "events", sevLabels, sevValues)
		}},
		{"events_by_state.png", func(path string) error {
			return barChart(path, "Events by State (top)", "events", stateLabels, stateValues)
		}},
		{"duration_histogram.png", func(path string) error {
			return histogram(path, "Event Duration (hours)", clampValues(rep.DurationsHours, maxHistogramHours), w.bins)
		}},
	}

	var rendered []string
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return rendered, err
		}
		path := filepath.Join(w.outDir, j.name)
		if err := j.render(path); err != nil {
			return rendered, fmt.Errorf("render %s: %w", j.name, err)
		}
		rendered = append(rendered, j.name)
		w.metrics.PlotsRendered.Inc()
		w.logger.Debug("plot rendered", "file", j.name)
	}
	return rendered, nil
}

func barChart(path, title, yLabel string, labels []string, values []float64) error {
	if len(labels) == 0 {
		return fmt.Errorf("no data for %q", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(24))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)

	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(7*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

func histogram(path, title string, values []float64, bins int) error {
	if len(values) == 0 {
		return fmt.Errorf("no data for %q", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "events"

	h, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("histogram: %w", err)
	}
	h.FillColor = plotutil.Color(1)

	p.Add(h)

	if err := p.Save(7*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}

// sortedCounts splits a count map into parallel label/value slices, largest
// count first.
func sortedCounts(counts map[string]int) ([]string, []float64) {
	type kv struct {
		k string
		v int
	}
	rows := make([]kv, 0, len(counts))
	for k, v := range counts {
		rows = append(rows, kv{k, v})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].v != rows[j].v {
			return rows[i].v > rows[j].v
		}
		return rows[i].k < rows[j].k
	})

	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.k
		values[i] = float64(r.v)
	}
	return labels, values
}

// orderedSeverityCounts keeps the severity bars in rank order rather than
// count order.
func orderedSeverityCounts(counts map[string]int) ([]string, []float64) {
	var labels []string
	var values []float64
	for _, s := range severityOrder(counts) {
		labels = append(labels, s)
		values = append(values, float64(counts[s]))
	}
	return labels, values
}

func clampValues(values []float64, max float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v > max {
			v = max
		}
		out[i] = v
	}
	return out
}
