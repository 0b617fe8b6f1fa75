// Package store provides the in-memory listings state behind the landing view.
// It holds both result containers and the loading flag, and writes them
// together so a reader never observes loading=false with only one side filled.
package store

import (
	"errors"
	"sync"

	"github.com/robby/earn/internal/domain"
)

// ErrLoadInFlight indicates a load cycle is already running.
var ErrLoadInFlight = errors.New("listings load already in flight")

// Snapshot is a consistent copy of the listings state.
type Snapshot struct {
	Bounties []domain.Bounty
	Grants   []domain.Grant
	Loading  bool
}

// Store manages the listings state for one view lifetime.
// All methods are safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	bounties []domain.Bounty
	grants   []domain.Grant

	// loading is true from construction until the first cycle settles,
	// and again only while an explicitly started cycle runs.
	loading  bool
	inFlight bool

	// settled counts finished cycles (success or failure)
	settled int
}

// New creates a Store in the mount state: empty containers, loading=true.
func New() *Store {
	return &Store{
		bounties: []domain.Bounty{},
		grants:   []domain.Grant{},
		loading:  true,
	}
}

// Begin starts a load cycle. It returns ErrLoadInFlight if one is running,
// so duplicate triggers never issue duplicate requests.
func (s *Store) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return ErrLoadInFlight
	}
	s.inFlight = true
	s.loading = true
	return nil
}

// Complete stores both result sets and clears the loading flag in one write.
func (s *Store) Complete(bounties []domain.Bounty, grants []domain.Grant) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bounties == nil {
		bounties = []domain.Bounty{}
	}
	if grants == nil {
		grants = []domain.Grant{}
	}
	s.bounties = bounties
	s.grants = grants
	s.finish()
}

// Fail ends the cycle without touching the result containers.
func (s *Store) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish()
}

func (s *Store) finish() {
	s.loading = false
	s.inFlight = false
	s.settled++
}

// IsLoading reports the loading flag.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Settled returns how many load cycles have finished.
func (s *Store) Settled() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settled
}

// GetBounties returns a copy of the bounties container.
func (s *Store) GetBounties() []domain.Bounty {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bounty, len(s.bounties))
	copy(out, s.bounties)
	return out
}

// GetGrants returns a copy of the grants container.
func (s *Store) GetGrants() []domain.Grant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Grant, len(s.grants))
	copy(out, s.grants)
	return out
}

// Snapshot returns both containers and the loading flag read under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Bounties: make([]domain.Bounty, len(s.bounties)),
		Grants:   make([]domain.Grant, len(s.grants)),
		Loading:  s.loading,
	}
	copy(snap.Bounties, s.bounties)
	copy(snap.Grants, s.grants)
	return snap
}
