package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for a reconciliation run.
type Metrics struct {
	RowsRead          *prometheus.CounterVec // labels: source={api,wiki}
	ParseFailures     *prometheus.CounterVec // labels: source={api,wiki}
	UnmatchedRows     prometheus.Counter
	RecordsProduced   prometheus.Counter
	CanonicalFallback *prometheus.CounterVec // labels: field={orbit,launch_site}
	RecordsPublished  prometheus.Counter
	PipelineRunning   prometheus.Gauge
	RunDuration       prometheus.Histogram

	// SpaceX API lookups.
	APIRequests *prometheus.CounterVec // labels: resource, outcome={success,error}
	APICache    *prometheus.CounterVec // labels: resource, result={hit,miss}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.ParseFailures,
		m.UnmatchedRows,
		m.RecordsProduced,
		m.CanonicalFallback,
		m.RecordsPublished,
		m.PipelineRunning,
		m.RunDuration,
		m.APIRequests,
		m.APICache,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "rows_read_total",
			Help:      "Rows read from each source table.",
		}, []string{"source"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "date_parse_failures_total",
			Help:      "Rows dropped because their date could not be parsed.",
		}, []string{"source"}),
		UnmatchedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "unmatched_rows_total",
			Help:      "API rows with no wiki row inside the tolerance window.",
		}),
		RecordsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "records_reconciled_total",
			Help:      "Reconciled records produced.",
		}),
		CanonicalFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "canonical_api_fallback_total",
			Help:      "Canonical values taken from the API because the wiki value was missing.",
		}, []string{"field"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "records_published_total",
			Help:      "Reconciled records written to the event sink.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "launch_etl",
			Name:      "pipeline_running",
			Help:      "1 while a reconciliation run is in progress.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "launch_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete load-reconcile-write run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "spacex_api_requests_total",
			Help:      "SpaceX API requests by resource and outcome.",
		}, []string{"resource", "outcome"}),
		APICache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "launch_etl",
			Name:      "spacex_api_cache_total",
			Help:      "SpaceX lookup cache results by resource.",
		}, []string{"resource", "result"}),
	}
}
