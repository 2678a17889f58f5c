// Package metrics records Prometheus metrics for one report run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for a run. Each Metrics owns its
// registry, so a run can be exported as a node_exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	// Store metrics
	StoreLoadsTotal    *prometheus.CounterVec
	StoreLoadDuration  *prometheus.HistogramVec
	StoreMessagesTotal *prometheus.GaugeVec

	// Analysis metrics
	MessagesAnalyzed   prometheus.Gauge
	ConversationsTotal *prometheus.GaugeVec
	AnalysisDuration   prometheus.Histogram

	// Run metrics
	ReportYear       prometheus.Gauge
	LastRunTimestamp prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{Registry: reg}

	m.StoreLoadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "textwrapped_store_loads_total",
			Help: "Store load attempts by source and outcome",
		},
		[]string{"source", "status"},
	)

	m.StoreLoadDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "textwrapped_store_load_duration_seconds",
			Help:    "Duration of loading one message store",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	m.StoreMessagesTotal = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "textwrapped_store_messages",
			Help: "Messages loaded from each store",
		},
		[]string{"source"},
	)

	m.MessagesAnalyzed = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "textwrapped_messages_analyzed",
			Help: "Messages inside the analysis window",
		},
	)

	m.ConversationsTotal = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "textwrapped_conversations",
			Help: "Active conversations by kind",
		},
		[]string{"kind"},
	)

	m.AnalysisDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "textwrapped_analysis_duration_seconds",
			Help:    "Duration of computing the report",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.ReportYear = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "textwrapped_report_year",
			Help: "Year the last report covered",
		},
	)

	m.LastRunTimestamp = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "textwrapped_last_run_timestamp_seconds",
			Help: "Unix time the last report was generated",
		},
	)

	return m
}

// ObserveStore records one store load.
func (m *Metrics) ObserveStore(source string, messages int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreLoadsTotal.WithLabelValues(source, status).Inc()
	m.StoreLoadDuration.WithLabelValues(source).Observe(d.Seconds())
	m.StoreMessagesTotal.WithLabelValues(source).Set(float64(messages))
}

// WriteTextfile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
