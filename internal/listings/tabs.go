package listings

import (
	"sort"
	"time"

	"github.com/robby/earn/internal/domain"
)

// Tab identifiers in display order.
const (
	TabOpen      = "open"
	TabCompleted = "completed"
)

// Tab is one bounty tab descriptor. Bounties is the tab's content.
type Tab struct {
	ID       string
	Title    string
	Bounties []domain.Bounty
	Loading  bool
}

// BuildTabs splits bounties into the Open and Completed tabs.
// It always returns both tabs, in that order, even while loading.
func BuildTabs(loading bool, bounties []domain.Bounty, now time.Time) []Tab {
	open := make([]domain.Bounty, 0, len(bounties))
	completed := make([]domain.Bounty, 0)

	for _, b := range bounties {
		if IsOpen(b, now) {
			open = append(open, b)
		} else {
			completed = append(completed, b)
		}
	}

	// Soonest deadline first for open work, most recently closed first otherwise
	sort.SliceStable(open, func(i, j int) bool {
		a, b := open[i].Deadline, open[j].Deadline
		if a.IsZero() != b.IsZero() {
			// Rolling bounties go last
			return b.IsZero()
		}
		return a.Before(b)
	})
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Deadline.After(completed[j].Deadline)
	})

	return []Tab{
		{ID: TabOpen, Title: "Open", Bounties: open, Loading: loading},
		{ID: TabCompleted, Title: "Completed", Bounties: completed, Loading: loading},
	}
}

// IsOpen reports whether a bounty still accepts submissions at now.
// A zero deadline is treated as rolling.
func IsOpen(b domain.Bounty, now time.Time) bool {
	if b.IsWinnersAnnounced {
		return false
	}
	if b.Status != "" && b.Status != domain.BountyStatusOpen {
		return false
	}
	return b.Deadline.IsZero() || b.Deadline.After(now)
}

// FindTab returns the tab with id, if present.
func FindTab(tabs []Tab, id string) (Tab, bool) {
	for _, t := range tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}
