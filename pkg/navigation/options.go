package navigation

import (
	"time"

	"go.uber.org/zap"
)

// DefaultDelay matches the length of the section slide animation.
const DefaultDelay = 300 * time.Millisecond

// Option configures a Navigator.
type Option func(*Navigator)

// WithDelay sets the delay between a request and the index change. Zero or
// negative values commit synchronously.
func WithDelay(d time.Duration) Option {
	return func(n *Navigator) {
		n.delay = d
	}
}

// WithScheduler overrides the scheduler used for delayed transitions.
func WithScheduler(s Scheduler) Option {
	return func(n *Navigator) {
		if s != nil {
			n.scheduler = s
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(n *Navigator) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// WithObserver registers fn to be called after every committed transition.
func WithObserver(fn func(Transition)) Option {
	return func(n *Navigator) {
		if fn != nil {
			n.observers = append(n.observers, fn)
		}
	}
}
