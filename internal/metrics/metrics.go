// Package metrics records per-operation request outcomes as Prometheus series.
package metrics

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"bitgetx/pkg/core"
)

// OutcomeSuccess labels a request that returned a usable payload. Failures are
// labelled with their lower-case core.ErrorKind.
const OutcomeSuccess = "success"

// Collector holds the client's Prometheus collectors. A nil *Collector is valid and
// records nothing.
type Collector struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// New creates a Collector and registers it with reg. A second client registering
// against the same reg reuses the collectors already registered.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bitgetx",
				Name:      "requests_total",
				Help:      "Total number of exchange requests by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bitgetx",
				Name:      "request_duration_seconds",
				Help:      "Duration of exchange requests in seconds, signing to classification",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		InFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "bitgetx",
				Name:      "requests_in_flight",
				Help:      "Number of exchange requests currently waiting for a response",
			},
		),
	}

	if reg == nil {
		return c, nil
	}
	var err error
	if c.Requests, err = register(reg, c.Requests); err != nil {
		return nil, err
	}
	if c.Duration, err = register(reg, c.Duration); err != nil {
		return nil, err
	}
	if c.InFlight, err = register(reg, c.InFlight); err != nil {
		return nil, err
	}
	return c, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Start marks a request as in flight and returns the function that records its
// outcome. err is nil on success.
func (c *Collector) Start(op core.Operation) func(err error) {
	if c == nil {
		return func(error) {}
	}
	start := time.Now()
	c.InFlight.Inc()
	return func(err error) {
		c.InFlight.Dec()
		c.Observe(op, err, time.Since(start))
	}
}

// Observe records one completed request.
func (c *Collector) Observe(op core.Operation, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(op.String(), Outcome(err)).Inc()
	c.Duration.WithLabelValues(op.String()).Observe(elapsed.Seconds())
}

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return strings.ToLower(core.KindOf(err).String())
}
