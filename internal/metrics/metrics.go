// Package metrics provides Prometheus metrics for planning runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the per-process registry and the planning collectors.
type Metrics struct {
	ItemsScheduled   *prometheus.CounterVec
	BlackoutImpacted prometheus.Gauge
	PlacementDelay   prometheus.Histogram
	TrackerCalls     *prometheus.CounterVec
	RunsTotal        *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		ItemsScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_items_scheduled_total",
				Help: "Items dated by the scheduler, by category and progress state.",
			},
			[]string{"category", "state"},
		),
		BlackoutImpacted: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cadence_blackout_impacted_items",
				Help: "Items whose interval was extended by the blackout in the last run.",
			},
		),
		PlacementDelay: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cadence_placement_delay_days",
				Help:    "Days between the scheduling cursor and the chosen start of new items.",
				Buckets: []float64{0, 1, 3, 7, 14, 28, 56, 112},
			},
		),
		TrackerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_tracker_calls_total",
				Help: "Issue tracker calls by operation and result.",
			},
			[]string{"op", "result"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cadence_runs_total",
				Help: "Use case runs by kind and mode.",
			},
			[]string{"kind", "mode"},
		),
		registry: reg,
	}

	reg.MustRegister(m.ItemsScheduled)
	reg.MustRegister(m.BlackoutImpacted)
	reg.MustRegister(m.PlacementDelay)
	reg.MustRegister(m.TrackerCalls)
	reg.MustRegister(m.RunsTotal)

	return m
}

// Registry exposes the gatherer for export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Recording methods are no-ops on a nil *Metrics.

func (m *Metrics) RecordScheduled(category, state string) {
	if m == nil {
		return
	}
	m.ItemsScheduled.WithLabelValues(category, state).Inc()
}

func (m *Metrics) SetBlackoutImpacted(n int) {
	if m == nil {
		return
	}
	m.BlackoutImpacted.Set(float64(n))
}

func (m *Metrics) ObserveDelay(days int) {
	if m == nil {
		return
	}
	m.PlacementDelay.Observe(float64(days))
}

// RecordTrackerCall counts one tracker call; err decides the result label.
func (m *Metrics) RecordTrackerCall(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TrackerCalls.WithLabelValues(op, result).Inc()
}

func (m *Metrics) RecordRun(kind string, apply bool) {
	if m == nil {
		return
	}
	mode := "dry_run"
	if apply {
		mode = "apply"
	}
	m.RunsTotal.WithLabelValues(kind, mode).Inc()
}

// WriteTextfile writes every metric in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
