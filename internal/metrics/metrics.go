// Package metrics exposes Prometheus instrumentation for the ledger.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of the ledger. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	transitions        *prometheus.CounterVec
	settlementDuration *prometheus.HistogramVec
	lockWait           prometheus.Histogram
	lockBusy           prometheus.Counter
	balanceDeltas      *prometheus.CounterVec
}

// New creates a private registry and registers every ledger metric in it,
// so tests can build as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_transitions_total",
				Help: "Document transitions by flow, target status and outcome.",
			},
			[]string{"flow", "status", "outcome"},
		),
		settlementDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_settlement_duration_seconds",
				Help:    "Time spent in the atomic settlement phase.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"flow"},
		),
		lockWait: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ledger_lock_wait_seconds",
				Help:    "Time spent waiting for account and document locks.",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
		lockBusy: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_lock_busy_total",
				Help: "Lock acquisitions that timed out.",
			},
		),
		balanceDeltas: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_balance_deltas_total",
				Help: "Balance mutations applied, by direction.",
			},
			[]string{"direction"},
		),
	}
}

// RecordTransition counts one transition attempt.
func (m *Metrics) RecordTransition(flow, status, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(flow, status, outcome).Inc()
}

// ObserveSettlement records how long a settlement transaction took.
func (m *Metrics) ObserveSettlement(flow string, d time.Duration) {
	if m == nil {
		return
	}
	m.settlementDuration.WithLabelValues(flow).Observe(d.Seconds())
}

// ObserveLockWait records time spent acquiring locks.
func (m *Metrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}

// IncrLockBusy counts a lock timeout.
func (m *Metrics) IncrLockBusy() {
	if m == nil {
		return
	}
	m.lockBusy.Inc()
}

// IncrBalanceDelta counts a debit or credit.
func (m *Metrics) IncrBalanceDelta(direction string) {
	if m == nil {
		return
	}
	m.balanceDeltas.WithLabelValues(direction).Inc()
}
