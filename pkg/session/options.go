package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/navigation"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Option configures a Controller.
type Option func(*Controller)

// WithSink sets the submission sink. Defaults to a LogSink on the
// controller's logger.
func WithSink(sink Sink) Option {
	return func(c *Controller) {
		c.sink = sink
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records session events on collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Controller) {
		c.metrics = collector
	}
}

// WithValidator replaces the default field rules.
func WithValidator(v *validation.Validator) Option {
	return func(c *Controller) {
		if v != nil {
			c.validator = v
		}
	}
}

// WithTransitionDelay sets the delay between a navigation request and the
// index change. Zero commits immediately.
func WithTransitionDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.navOptions = append(c.navOptions, navigation.WithDelay(d))
	}
}

// WithScheduler injects the timer source used for delayed transitions.
func WithScheduler(s navigation.Scheduler) Option {
	return func(c *Controller) {
		c.navOptions = append(c.navOptions, navigation.WithScheduler(s))
	}
}
