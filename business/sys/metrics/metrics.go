// Package metrics constructs the metrics the application will track.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// Metrics holds the set of counters and histograms updated by the web
// middleware and the mining worker.
type Metrics struct {
	Requests       prometheus.Counter
	Errors         prometheus.Counter
	Panics         prometheus.Counter
	MiningCycles   *prometheus.CounterVec
	MiningAttempts prometheus.Counter
	MiningDuration prometheus.Histogram
}

// New constructs the metrics and registers them with the registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Requests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled.",
		}),
		Errors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total HTTP requests that returned an error.",
		}),
		Panics: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Total HTTP requests that panicked.",
		}),
		MiningCycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "cycles_total",
			Help:      "Total mining cycles by outcome.",
		}, []string{"outcome"}),
		MiningAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "attempts_total",
			Help:      "Total nonces tried while mining.",
		}),
		MiningDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mining",
			Name:      "duration_seconds",
			Help:      "Time spent mining a block.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

// Mining outcomes.
const (
	OutcomeSolved    = "solved"
	OutcomeExhausted = "exhausted"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

// ObserveMining records the result of a mining cycle. The signature matches
// what the mining worker reports.
func (m *Metrics) ObserveMining(result database.MineResult, duration time.Duration, err error) {
	outcome := OutcomeSolved
	switch {
	case errors.Is(err, database.ErrMiningExhausted):
		outcome = OutcomeExhausted
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		outcome = OutcomeCancelled
	case err != nil:
		outcome = OutcomeFailed
	}

	m.MiningCycles.WithLabelValues(outcome).Inc()
	m.MiningAttempts.Add(float64(result.Attempts))
	m.MiningDuration.Observe(duration.Seconds())
}
