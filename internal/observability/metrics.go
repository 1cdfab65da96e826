package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "globe_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the ETL pipeline.
type Metrics struct {
	RowsRead        *prometheus.CounterVec // labels: source
	RowsSkipped     *prometheus.CounterVec // labels: source
	LookupMisses    prometheus.Counter
	SkippedFeatures prometheus.Counter
	DocumentsLoaded *prometheus.CounterVec // labels: loader
	LoadErrors      *prometheus.CounterVec // labels: loader
	DocumentRecords *prometheus.GaugeVec   // labels: document
	PipelineRunning prometheus.Gauge
	LastSuccess     prometheus.Gauge

	RunDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Data rows read per tabular source.",
		}, []string{"source"}),
		RowsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_skipped_total",
			Help:      "Malformed rows dropped per tabular source.",
		}, []string{"source"}),
		LookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emissions_lookup_misses_total",
			Help:      "Country-years joined with zero emissions because no series entry existed.",
		}),
		SkippedFeatures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_features_skipped_total",
			Help:      "Boundary features without usable vertices.",
		}),
		DocumentsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_loaded_total",
			Help:      "Documents handed to each loader.",
		}, []string{"loader"}),
		LoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "load_errors_total",
			Help:      "Loader failures.",
		}, []string{"loader"}),
		DocumentRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "document_records",
			Help:      "Top-level records in each document of the latest run.",
		}, []string{"document"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that loaded every document.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-transform-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.RowsRead,
		m.RowsSkipped,
		m.LookupMisses,
		m.SkippedFeatures,
		m.DocumentsLoaded,
		m.LoadErrors,
		m.DocumentRecords,
		m.PipelineRunning,
		m.LastSuccess,
		m.RunDuration,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	m := newMetrics()
	reg := prometheus.NewRegistry()
	reg.MustRegister(m.collectors()...)
	return m, reg
}
