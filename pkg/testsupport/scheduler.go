package testsupport

import (
	"sync"
	"time"

	"github.com/goliatone/go-formflow/pkg/navigation"
)

// ManualScheduler queues navigation timers until the test fires them.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func (t *manualTimer) claim() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.fired = true
	return true
}

var _ navigation.Scheduler = (*ManualScheduler)(nil)

// AfterFunc records fn; the delay is ignored.
func (s *ManualScheduler) AfterFunc(_ time.Duration, fn func()) navigation.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

// Fire runs every timer that has not been stopped or fired and returns how
// many ran.
func (s *ManualScheduler) Fire() int {
	s.mu.Lock()
	queued := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()

	fired := 0
	for _, timer := range queued {
		if timer.claim() {
			timer.fn()
			fired++
		}
	}
	return fired
}

// Scheduled returns how many timers were created.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
