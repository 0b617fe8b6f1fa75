package promo

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robby/earn/internal/domain"
	"github.com/robby/earn/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScheduler fires timers only when Advance moves its clock past them.
type fakeScheduler struct {
	mu      sync.Mutex
	now     time.Duration
	pending []*fakeTimer
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{at: s.now + d, f: f}
	s.pending = append(s.pending, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*fakeTimer
	for _, t := range s.pending {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (s *fakeScheduler) armedTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type failingStore struct{ getErr, setErr error }

func (f failingStore) Get(string) (string, bool, error) { return "", false, f.getErr }
func (f failingStore) Set(string, string) error         { return f.setErr }

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestGate_FiresOnceAfterDelay(t *testing.T) {
	store := kv.NewMemStore()
	sched := &fakeScheduler{}
	g := NewGate(store, WithScheduler(sched))

	armed, err := g.Arm()
	require.NoError(t, err)
	assert.True(t, armed)
	assert.Equal(t, Armed, g.State())

	sched.Advance(Delay - time.Millisecond)
	assert.False(t, g.IsOpen())
	_, ok, _ := store.Get(ShownKey)
	assert.False(t, ok, "flag not written before the delay")

	sched.Advance(time.Millisecond)
	assert.True(t, g.IsOpen())
	assert.Equal(t, Shown, g.State())
	assert.True(t, isClosed(g.Done()))

	v, ok, err := store.Get(ShownKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ShownValue, v)

	// Re-arming the same gate does nothing
	armed, err = g.Arm()
	require.NoError(t, err)
	assert.False(t, armed)
	assert.Equal(t, 1, sched.armedTimers())
}

func TestGate_SecondMountNeverArms(t *testing.T) {
	store := kv.NewMemStore()

	first := &fakeScheduler{}
	g1 := NewGate(store, WithScheduler(first))
	_, err := g1.Arm()
	require.NoError(t, err)
	first.Advance(Delay)
	require.True(t, g1.IsOpen())
	g1.Cancel() // unmount after showing is a no-op
	assert.Equal(t, Shown, g1.State())

	second := &fakeScheduler{}
	g2 := NewGate(store, WithScheduler(second))
	armed, err := g2.Arm()
	require.NoError(t, err)
	assert.False(t, armed)
	assert.Equal(t, Unarmed, g2.State())
	assert.Equal(t, 0, second.armedTimers())

	second.Advance(10 * Delay)
	assert.False(t, g2.IsOpen())
}

func TestGate_CancelBeforeDelay(t *testing.T) {
	store := kv.NewMemStore()
	sched := &fakeScheduler{}
	g := NewGate(store, WithScheduler(sched))

	_, err := g.Arm()
	require.NoError(t, err)
	sched.Advance(Delay / 2)

	g.Cancel()
	assert.Equal(t, Cancelled, g.State())
	assert.True(t, isClosed(g.Done()))

	sched.Advance(Delay)
	assert.False(t, g.IsOpen())
	_, ok, _ := store.Get(ShownKey)
	assert.False(t, ok, "flag stays unset")

	// Cancel again is a no-op
	require.NotPanics(t, g.Cancel)
}

func TestGate_CancelUnarmedIsNoop(t *testing.T) {
	g := NewGate(kv.NewMemStore(), WithScheduler(&fakeScheduler{}))

	require.NotPanics(t, g.Cancel)
	assert.Equal(t, Unarmed, g.State())
	assert.False(t, isClosed(g.Done()))
}

func TestGate_FireAfterCancelRace(t *testing.T) {
	store := kv.NewMemStore()
	sched := &fakeScheduler{}
	g := NewGate(store, WithScheduler(sched))
	_, err := g.Arm()
	require.NoError(t, err)

	// A timer callback that was already dispatched when Cancel ran
	g.Cancel()
	g.fire()

	assert.Equal(t, Cancelled, g.State())
	assert.False(t, g.IsOpen())
	_, ok, _ := store.Get(ShownKey)
	assert.False(t, ok)
}

func TestGate_Close(t *testing.T) {
	store := kv.NewMemStore()
	sched := &fakeScheduler{}
	g := NewGate(store, WithScheduler(sched))
	_, err := g.Arm()
	require.NoError(t, err)
	sched.Advance(Delay)
	require.True(t, g.IsOpen())

	g.Close()
	assert.False(t, g.IsOpen())
	assert.Equal(t, Shown, g.State())

	v, _, _ := store.Get(ShownKey)
	assert.Equal(t, ShownValue, v, "closing keeps the flag")
}

func TestGate_StoreErrors(t *testing.T) {
	t.Run("read error does not arm", func(t *testing.T) {
		sched := &fakeScheduler{}
		g := NewGate(failingStore{getErr: errors.New("disk gone")}, WithScheduler(sched))

		armed, err := g.Arm()
		assert.Error(t, err)
		assert.False(t, armed)
		assert.Equal(t, 0, sched.armedTimers())
	})

	t.Run("write error still shows", func(t *testing.T) {
		sched := &fakeScheduler{}
		g := NewGate(failingStore{setErr: errors.New("read-only")}, WithScheduler(sched))

		armed, err := g.Arm()
		require.NoError(t, err)
		require.True(t, armed)
		sched.Advance(Delay)
		assert.True(t, g.IsOpen())
	})
}

func TestGate_RealScheduler(t *testing.T) {
	g := NewGate(kv.NewMemStore())
	g.delay = 10 * time.Millisecond

	armed, err := g.Arm()
	require.NoError(t, err)
	require.True(t, armed)

	select {
	case <-g.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("gate did not fire")
	}
	assert.True(t, g.IsOpen())
}

func TestEligible(t *testing.T) {
	sess := &domain.Session{User: domain.SessionUser{ID: "u1"}}

	tests := []struct {
		name   string
		sess   *domain.Session
		status domain.SessionStatus
		want   bool
	}{
		{"signed out", nil, domain.SessionUnauthenticated, true},
		{"still loading", nil, domain.SessionLoading, false},
		{"signed in", sess, domain.SessionAuthenticated, false},
		{"session with stale status", sess, domain.SessionUnauthenticated, false},
		{"authenticated without object", nil, domain.SessionAuthenticated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(tt.sess, tt.status))
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "armed", Armed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
