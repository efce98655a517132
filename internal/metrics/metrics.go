// Package metrics exposes the tracker's operational counters over Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector on one registry so two trackers in one
// process never fight over the default registry.
type Metrics struct {
	registry *prometheus.Registry

	Cycles           prometheus.Counter
	CycleDuration    prometheus.Histogram
	FixturesChecked  prometheus.Counter
	UnmatchedRecords prometheus.Counter
	Writes           prometheus.Counter
	WriteErrors      prometheus.Counter
	FeedFetches      prometheus.Counter
	Notifications    *prometheus.CounterVec
	Verdicts         *prometheus.CounterVec
}

// New builds and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.Cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_cycles_total",
		Help: "Completed tracking cycles.",
	})
	m.CycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracker_cycle_duration_seconds",
		Help:    "Wall time of one tracking cycle.",
		Buckets: prometheus.DefBuckets,
	})
	m.FixturesChecked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_fixtures_checked_total",
		Help: "Stored predictions examined across all cycles.",
	})
	m.UnmatchedRecords = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_unmatched_records_total",
		Help: "Predictions with no matching live-feed fixture.",
	})
	m.Writes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_state_writes_total",
		Help: "Prediction rows written back after a state change.",
	})
	m.WriteErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_state_write_errors_total",
		Help: "Failed prediction write-backs.",
	})
	m.FeedFetches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracker_feed_fetches_total",
		Help: "Live feed fetch attempts, cached or upstream.",
	})
	m.Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_notifications_total",
		Help: "Messages sent, by kind.",
	}, []string{"kind"})
	m.Verdicts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_verdicts_total",
		Help: "Settled predictions, by verdict.",
	}, []string{"verdict"})

	m.registry.MustRegister(
		m.Cycles, m.CycleDuration, m.FixturesChecked, m.UnmatchedRecords,
		m.Writes, m.WriteErrors, m.FeedFetches, m.Notifications, m.Verdicts,
	)
	return m
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
