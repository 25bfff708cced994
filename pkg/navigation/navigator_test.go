package navigation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/navigation"
)

type manualTimer struct {
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(_ time.Duration, fn func()) navigation.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &manualTimer{fn: fn}
	s.timers = append(s.timers, timer)
	return timer
}

// fireActive runs every timer that has not been stopped.
func (s *manualScheduler) fireActive() {
	s.mu.Lock()
	var due []*manualTimer
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			due = append(due, timer)
		}
	}
	s.mu.Unlock()
	for _, timer := range due {
		timer.fn()
	}
}

// fireAll runs every timer, including stopped ones, to mimic a Stop that lost
// the race against the clock.
func (s *manualScheduler) fireAll() {
	s.mu.Lock()
	all := append([]*manualTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, timer := range all {
		timer.fn()
	}
}

func newDelayed(t *testing.T, count int, opts ...navigation.Option) (*navigation.Navigator, *manualScheduler) {
	t.Helper()
	sched := &manualScheduler{}
	opts = append([]navigation.Option{navigation.WithScheduler(sched)}, opts...)
	nav := navigation.New(opts...)
	if err := nav.Reset(count); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return nav, sched
}

func TestNavigator_ImmediateMoves(t *testing.T) {
	nav := navigation.New(navigation.WithDelay(0))
	if err := nav.Reset(3); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if err := nav.Previous(); !errors.Is(err, navigation.ErrFirstSection) {
		t.Fatalf("Previous on first = %v", err)
	}
	for i := 1; i <= 2; i++ {
		if err := nav.Next(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if nav.Index() != i {
			t.Fatalf("index = %d, want %d", nav.Index(), i)
		}
	}
	if !nav.IsLast() {
		t.Fatalf("expected last section")
	}
	if err := nav.Next(); !errors.Is(err, navigation.ErrLastSection) {
		t.Fatalf("Next on last = %v", err)
	}
	if err := nav.Previous(); err != nil || nav.Index() != 1 {
		t.Fatalf("previous: err=%v index=%d", err, nav.Index())
	}
	if nav.Transitioning() {
		t.Fatalf("immediate navigator must never be transitioning")
	}
}

func TestNavigator_Empty(t *testing.T) {
	nav := navigation.New()
	if err := nav.Next(); !errors.Is(err, navigation.ErrNoSections) {
		t.Fatalf("Next without sections = %v", err)
	}
	if err := nav.Reset(0); !errors.Is(err, navigation.ErrNoSections) {
		t.Fatalf("Reset(0) = %v", err)
	}
	if nav.IsLast() {
		t.Fatalf("empty navigator reports last section")
	}
}

func TestNavigator_DelayedCommit(t *testing.T) {
	var got []navigation.Transition
	nav, sched := newDelayed(t, 3, navigation.WithObserver(func(tr navigation.Transition) {
		got = append(got, tr)
	}))

	if err := nav.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if nav.Index() != 0 {
		t.Fatalf("index changed before the delay elapsed")
	}
	if target, ok := nav.Pending(); !ok || target != 1 {
		t.Fatalf("pending = %d %v", target, ok)
	}
	if nav.Phase() != navigation.PhaseTransitioning {
		t.Fatalf("phase = %s", nav.Phase())
	}

	sched.fireActive()

	if nav.Index() != 1 || nav.Transitioning() {
		t.Fatalf("after fire: index=%d transitioning=%v", nav.Index(), nav.Transitioning())
	}
	want := []navigation.Transition{{From: 0, To: 1, Direction: navigation.Forward}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("transitions mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigator_RapidNextAdvancesOnce(t *testing.T) {
	nav, sched := newDelayed(t, 4)

	for i := 0; i < 3; i++ {
		if err := nav.Next(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
	}
	sched.fireAll()

	if nav.Index() != 1 {
		t.Fatalf("index = %d, want 1", nav.Index())
	}
}

func TestNavigator_PreviousSupersedesNext(t *testing.T) {
	delayed, dsched := newDelayed(t, 3)
	_ = delayed.Next()
	dsched.fireActive()
	if delayed.Index() != 1 {
		t.Fatalf("setup: index = %d", delayed.Index())
	}

	_ = delayed.Next()
	if err := delayed.Previous(); err != nil {
		t.Fatalf("previous: %v", err)
	}
	if target, _ := delayed.Pending(); target != 0 {
		t.Fatalf("pending target = %d, want 0", target)
	}
	dsched.fireAll()
	if delayed.Index() != 0 {
		t.Fatalf("index = %d, want 0", delayed.Index())
	}
}

func TestNavigator_RejectedMoveKeepsPending(t *testing.T) {
	nav, sched := newDelayed(t, 2)
	_ = nav.Next()
	if err := nav.Previous(); !errors.Is(err, navigation.ErrFirstSection) {
		t.Fatalf("Previous = %v", err)
	}
	sched.fireActive()
	if nav.Index() != 1 {
		t.Fatalf("index = %d, want 1", nav.Index())
	}
}

func TestNavigator_ResetCancelsPending(t *testing.T) {
	nav, sched := newDelayed(t, 3)
	_ = nav.Next()
	if err := nav.Reset(5); err != nil {
		t.Fatalf("reset: %v", err)
	}
	sched.fireAll()
	if nav.Index() != 0 || nav.Count() != 5 || nav.Transitioning() {
		t.Fatalf("after reset: index=%d count=%d transitioning=%v", nav.Index(), nav.Count(), nav.Transitioning())
	}
}

func TestNavigator_CancelAndWait(t *testing.T) {
	nav, _ := newDelayed(t, 3)
	_ = nav.Next()

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done <- nav.Wait(ctx)
	}()

	nav.Cancel()
	if err := <-done; err != nil {
		t.Fatalf("wait: %v", err)
	}
	if nav.Index() != 0 {
		t.Fatalf("cancel moved the index")
	}
}

func TestNavigator_WaitTimesOut(t *testing.T) {
	nav, _ := newDelayed(t, 2)
	_ = nav.Next()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := nav.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v", err)
	}
}

func TestNavigator_SystemScheduler(t *testing.T) {
	nav := navigation.New(navigation.WithDelay(5 * time.Millisecond))
	if err := nav.Reset(2); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := nav.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := nav.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if nav.Index() != 1 {
		t.Fatalf("index = %d, want 1", nav.Index())
	}
}
