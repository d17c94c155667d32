package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis run.
type Metrics struct {
	RowsLoaded      prometheus.Counter
	RowsDropped     prometheus.Counter
	StationRowsSeen prometheus.Counter
	JoinDropped     prometheus.Counter
	PlotsRendered   prometheus.Counter
	RunRunning      prometheus.Gauge

	// Stage timing, labeled by stage name (load, clean, split, analyze, report).
	StageDuration *prometheus.HistogramVec

	// Geocoding metrics.
	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeEnabled  prometheus.Gauge
}

// NewMetrics creates and registers all run metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.StationRowsSeen,
		m.JoinDropped,
		m.PlotsRendered,
		m.RunRunning,
		m.StageDuration,
		m.GeocodeRequests,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "rows_loaded_total",
			Help:      "Total rows read from the source file.",
		}),
		RowsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "rows_dropped_total",
			Help:      "Rows rejected during cleaning.",
		}),
		StationRowsSeen: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "station_rows_total",
			Help:      "Per-row station records before deduplication.",
		}),
		JoinDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "join_dropped_total",
			Help:      "Events dropped because their station key was unknown.",
		}),
		PlotsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "plots_rendered_total",
			Help:      "Plot files written to the output directory.",
		}),
		RunRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_insights",
			Name:      "run_running",
			Help:      "1 while an analysis run is active, 0 otherwise.",
		}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "weather_insights",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each analysis stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_insights",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_insights",
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}
}
