// Package promo implements the one-time promotional prompt shown on the
// landing view.
//
// The gate moves Unarmed -> Armed -> (Shown | Cancelled). It arms only when
// the persisted flag is absent, fires once after a fixed delay, and records
// the flag when it fires so no later run arms again. Cancelling an armed gate
// withdraws the timer; cancelling in any other state does nothing.
package promo

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robby/earn/internal/domain"
	"github.com/robby/earn/internal/kv"
)

// ShownKey is the persisted flag's key.
const ShownKey = "modalShown"

// ShownValue is written under ShownKey once the prompt has opened.
const ShownValue = "true"

// Delay is how long the gate waits after arming before it opens the prompt.
const Delay = 3 * time.Second

// State is the gate's lifecycle state.
type State int

const (
	Unarmed State = iota
	Armed
	Shown
	Cancelled
)

func (s State) String() string {
	switch s {
	case Unarmed:
		return "unarmed"
	case Armed:
		return "armed"
	case Shown:
		return "shown"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Timer is a pending one-shot callback.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the wall clock.
var RealScheduler Scheduler = realScheduler{}

// Gate governs the promotional prompt for one view lifetime.
type Gate struct {
	mu    sync.Mutex
	store kv.Store
	sched Scheduler
	delay time.Duration

	state State
	open  bool
	timer Timer

	// done is closed on the transition to Shown or Cancelled
	done chan struct{}
}

// Option configures a Gate.
type Option func(*Gate)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s Scheduler) Option {
	return func(g *Gate) { g.sched = s }
}

// NewGate creates an unarmed gate persisting its flag in store.
func NewGate(store kv.Store, opts ...Option) *Gate {
	g := &Gate{
		store: store,
		sched: RealScheduler,
		delay: Delay,
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Arm starts the delayed trigger if the persisted flag is absent.
// It reports whether the gate armed. Calling Arm on a gate that has left
// Unarmed is a no-op.
func (g *Gate) Arm() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Unarmed {
		return false, nil
	}

	v, ok, err := g.store.Get(ShownKey)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", ShownKey, err)
	}
	if ok && v != "" {
		return false, nil
	}

	g.state = Armed
	g.timer = g.sched.AfterFunc(g.delay, g.fire)
	return true, nil
}

func (g *Gate) fire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	// Lost the race with Cancel
	if g.state != Armed {
		return
	}

	g.state = Shown
	g.open = true
	g.timer = nil
	if err := g.store.Set(ShownKey, ShownValue); err != nil {
		log.Printf("[promo] persist %s failed: %v", ShownKey, err)
	}
	close(g.done)
}

// Cancel withdraws a pending trigger. It is safe to call in any state and
// more than once; only an armed gate changes state.
func (g *Gate) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Armed {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.state = Cancelled
	close(g.done)
}

// Close hides the prompt. The persisted flag is unaffected.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = false
}

// IsOpen reports whether the prompt is currently displayed.
func (g *Gate) IsOpen() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.open
}

// State returns the current lifecycle state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Done is closed once the gate reaches Shown or Cancelled.
// It never closes for a gate that did not arm.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Eligible reports whether the call-to-action variant of the prompt applies:
// no session and a status resolved to unauthenticated.
func Eligible(sess *domain.Session, status domain.SessionStatus) bool {
	return sess == nil && status == domain.SessionUnauthenticated
}
