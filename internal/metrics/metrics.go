// Package metrics provides Prometheus metrics for the goal sync engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the client.
type Metrics struct {
	RemoteCalls     *prometheus.CounterVec
	RemoteDuration  *prometheus.HistogramVec
	Reconciliations *prometheus.CounterVec
	SnapshotWrites  *prometheus.CounterVec
	Goals           prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RemoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hbt_remote_calls_total",
				Help: "Remote service calls by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hbt_remote_call_duration_seconds",
				Help:    "Remote service call duration by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		Reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hbt_reconciliations_total",
				Help: "Goal reconciliations by operation, outcome and whether state changed.",
			},
			[]string{"op", "outcome", "applied"},
		),
		SnapshotWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hbt_snapshot_writes_total",
				Help: "Snapshot writes by key and result.",
			},
			[]string{"key", "result"},
		),
		Goals: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hbt_goals",
				Help: "Goals in the local collection.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RemoteCalls)
	reg.MustRegister(m.RemoteDuration)
	reg.MustRegister(m.Reconciliations)
	reg.MustRegister(m.SnapshotWrites)
	reg.MustRegister(m.Goals)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry (for testing).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRemoteCall counts a gateway call and observes its duration.
func (m *Metrics) RecordRemoteCall(op, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RemoteCalls.WithLabelValues(op, outcome).Inc()
	m.RemoteDuration.WithLabelValues(op).Observe(seconds)
}

// RecordReconciliation counts a repository reconciliation.
func (m *Metrics) RecordReconciliation(op, outcome string, applied bool) {
	if m == nil {
		return
	}
	a := "false"
	if applied {
		a = "true"
	}
	m.Reconciliations.WithLabelValues(op, outcome, a).Inc()
}

// RecordSnapshotWrite counts a snapshot write.
func (m *Metrics) RecordSnapshotWrite(key string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.SnapshotWrites.WithLabelValues(key, result).Inc()
}

// SetGoals sets the goal count gauge.
func (m *Metrics) SetGoals(n int) {
	if m == nil {
		return
	}
	m.Goals.Set(float64(n))
}
