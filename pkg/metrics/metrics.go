// Package metrics exposes Prometheus counters for wizard sessions.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "formflow"
	subsystem = "session"
)

// Outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeUnreachable = "unreachable"
	OutcomeInvalid     = "invalid"
)

// Collector records session events. A nil *Collector is valid and records
// nothing.
type Collector struct {
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
	transitions        *prometheus.CounterVec
	submissions        *prometheus.CounterVec
}

// New registers the collector's metrics on reg. A nil reg falls back to the
// default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Remote calls by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Remote call latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validation_failures_total",
				Help:      "Section validations that blocked navigation or submission",
			},
			[]string{"section"},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transitions_total",
				Help:      "Committed section transitions by direction",
			},
			[]string{"direction"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "submissions_total",
				Help:      "Submission attempts by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest counts a remote call and its latency.
func (c *Collector) ObserveRequest(operation, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(operation, outcome).Inc()
	c.requestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ValidationFailed counts a blocked section.
func (c *Collector) ValidationFailed(sectionID int) {
	if c == nil {
		return
	}
	c.validationFailures.WithLabelValues(strconv.Itoa(sectionID)).Inc()
}

// Transitioned counts a committed move.
func (c *Collector) Transitioned(direction string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(direction).Inc()
}

// Submitted counts a submission attempt.
func (c *Collector) Submitted(outcome string) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(outcome).Inc()
}
