// Package listings loads the landing view's bounties and grants and builds the
// bounty tabs from them.
package listings

import (
	"context"
	"log"
	"time"

	"github.com/robby/earn/internal/api"
	"github.com/robby/earn/internal/domain"
	"github.com/robby/earn/internal/store"
	"golang.org/x/sync/errgroup"
)

// BountyTake caps the number of bounties requested.
const BountyTake = 20

// Source is the listings API as the loader consumes it.
// *api.Client satisfies it.
type Source interface {
	Grants(ctx context.Context) ([]domain.Grant, error)
	Bounties(ctx context.Context, query api.BountyQuery) ([]domain.Bounty, error)
}

// Loader fetches both categories concurrently and commits them to a Store.
type Loader struct {
	src   Source
	store *store.Store
	now   func() time.Time
}

// NewLoader creates a loader writing into s.
func NewLoader(src Source, s *store.Store) *Loader {
	return &Loader{src: src, store: s, now: time.Now}
}

// WithClock overrides the clock used for the deadline window.
func (l *Loader) WithClock(now func() time.Time) *Loader {
	l.now = now
	return l
}

// Load runs one load cycle. Both reads are issued at once and both must
// succeed; any failure is logged, leaves the containers as they were and
// still clears the loading flag. Returns store.ErrLoadInFlight without
// issuing requests if a cycle is already running.
func (l *Loader) Load(ctx context.Context) error {
	if err := l.store.Begin(); err != nil {
		return err
	}

	query := api.BountyQuery{
		Take:     BountyTake,
		Deadline: BountyDeadline(l.now()),
	}

	var (
		grants   []domain.Grant
		bounties []domain.Bounty
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		grants, err = l.src.Grants(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bounties, err = l.src.Bounties(gctx, query)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("[listings] load failed: %v", err)
		l.store.Fail()
		return err
	}

	log.Printf("[listings] loaded bounties=%d grants=%d", len(bounties), len(grants))
	l.store.Complete(bounties, grants)
	return nil
}

// BountyDeadline returns now minus one calendar month. The day is clamped to
// the target month's length, so March 31 maps to the last day of February.
func BountyDeadline(now time.Time) time.Time {
	year, month, day := now.Date()
	month--
	if month < time.January {
		month = time.December
		year--
	}
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), now.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
