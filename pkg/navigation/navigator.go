package navigation

import (
	"context"
	"sync"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

const (
	// PhaseIdle means no transition is pending.
	PhaseIdle = "idle"
	// PhaseTransitioning means a move has been requested but not committed.
	PhaseTransitioning = "transitioning"

	eventBegin  = "begin"
	eventSettle = "settle"
	eventCancel = "cancel"
)

// Direction of a transition.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Transition describes a committed index change.
type Transition struct {
	From      int
	To        int
	Direction Direction
}

type pendingMove struct {
	timer      Timer
	target     int
	direction  Direction
	generation uint64
}

// Navigator holds the committed section index and at most one pending move.
type Navigator struct {
	mu sync.Mutex

	index int
	count int

	delay     time.Duration
	scheduler Scheduler
	logger    *zap.SugaredLogger
	observers []func(Transition)

	machine    *fsm.FSM
	pending    *pendingMove
	generation atomic.Uint64
	idle       chan struct{}
}

// New constructs a navigator with no sections. Call Reset once the schema is
// known.
func New(options ...Option) *Navigator {
	n := &Navigator{
		delay:     DefaultDelay,
		scheduler: SystemScheduler(),
		logger:    zap.NewNop().Sugar(),
		idle:      closedChan(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(n)
	}

	n.machine = fsm.NewFSM(
		PhaseIdle,
		fsm.Events{
			{Name: eventBegin, Src: []string{PhaseIdle}, Dst: PhaseTransitioning},
			{Name: eventSettle, Src: []string{PhaseTransitioning}, Dst: PhaseIdle},
			{Name: eventCancel, Src: []string{PhaseTransitioning}, Dst: PhaseIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				n.logger.Debugf("navigation phase %s -> %s (%s)", e.Src, e.Dst, e.Event)
			},
		},
	)
	return n
}

// Reset cancels any pending move and positions the navigator on the first of
// count sections.
func (n *Navigator) Reset(count int) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.cancelLocked()
	n.index = 0
	if count < 1 {
		n.count = 0
		return ErrNoSections
	}
	n.count = count
	return nil
}

// Next requests a move to the following section.
func (n *Navigator) Next() error {
	return n.move(Forward)
}

// Previous requests a move to the preceding section.
func (n *Navigator) Previous() error {
	return n.move(Backward)
}

func (n *Navigator) move(direction Direction) error {
	n.mu.Lock()
	if n.count == 0 {
		n.mu.Unlock()
		return ErrNoSections
	}
	target := n.index + int(direction)
	switch {
	case direction == Forward && target > n.count-1:
		n.mu.Unlock()
		return ErrLastSection
	case direction == Backward && target < 0:
		n.mu.Unlock()
		return ErrFirstSection
	}

	if n.pending != nil {
		n.logger.Debugf("navigation: superseding pending move to %d", n.pending.target)
		n.pending.timer.Stop()
		n.pending = nil
	}
	gen := n.generation.Inc()

	if n.delay <= 0 {
		transition := n.commitLocked(target, direction)
		n.mu.Unlock()
		n.notify(transition)
		return nil
	}

	if n.machine.Is(PhaseIdle) {
		n.event(eventBegin)
		n.idle = make(chan struct{})
	}
	n.pending = &pendingMove{
		target:     target,
		direction:  direction,
		generation: gen,
	}
	n.pending.timer = n.scheduler.AfterFunc(n.delay, func() { n.fire(gen) })
	n.mu.Unlock()
	return nil
}

func (n *Navigator) fire(gen uint64) {
	if n.generation.Load() != gen {
		return
	}
	n.mu.Lock()
	if n.pending == nil || n.pending.generation != gen {
		n.mu.Unlock()
		return
	}
	move := n.pending
	n.pending = nil
	transition := n.commitLocked(move.target, move.direction)
	n.mu.Unlock()
	n.notify(transition)
}

func (n *Navigator) commitLocked(target int, direction Direction) Transition {
	transition := Transition{From: n.index, To: target, Direction: direction}
	n.index = target
	if n.machine.Is(PhaseTransitioning) {
		n.event(eventSettle)
		close(n.idle)
	}
	return transition
}

// Cancel drops a pending move, leaving the committed index unchanged.
func (n *Navigator) Cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelLocked()
}

func (n *Navigator) cancelLocked() {
	if n.pending == nil {
		return
	}
	n.pending.timer.Stop()
	n.pending = nil
	n.generation.Inc()
	if n.machine.Is(PhaseTransitioning) {
		n.event(eventCancel)
		close(n.idle)
	}
}

func (n *Navigator) event(name string) {
	if err := n.machine.Event(context.Background(), name); err != nil {
		n.logger.Warnf("navigation: phase event %s: %v", name, err)
	}
}

func (n *Navigator) notify(t Transition) {
	n.logger.Debugf("navigation: section %d -> %d", t.From, t.To)
	for _, fn := range n.observers {
		fn(t)
	}
}

// Wait blocks until no move is pending or ctx is done.
func (n *Navigator) Wait(ctx context.Context) error {
	n.mu.Lock()
	idle := n.idle
	n.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Index returns the committed section index.
func (n *Navigator) Index() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.index
}

// Count returns the number of sections.
func (n *Navigator) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

// IsFirst reports whether the committed index is the first section.
func (n *Navigator) IsFirst() bool {
	return n.Index() == 0
}

// IsLast reports whether the committed index is the terminal section.
func (n *Navigator) IsLast() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count > 0 && n.index == n.count-1
}

// Pending returns the target of the pending move, if any.
func (n *Navigator) Pending() (int, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.pending == nil {
		return 0, false
	}
	return n.pending.target, true
}

// Transitioning reports whether a move is pending.
func (n *Navigator) Transitioning() bool {
	return n.Phase() == PhaseTransitioning
}

// Phase returns PhaseIdle or PhaseTransitioning.
func (n *Navigator) Phase() string {
	return n.machine.Current()
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
