package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/robby/earn/internal/domain"
)

// DeadlineLayout is the ISO-8601 form the listings endpoint expects for the
// deadline filter (UTC, millisecond precision).
const DeadlineLayout = "2006-01-02T15:04:05.000Z07:00"

const listingsPath = "/listings/"

// BountyQuery narrows the bounties category.
type BountyQuery struct {
	Take     int       // Result cap; zero means server default
	Deadline time.Time // Exclude listings that closed before this instant; zero means no filter
}

// FormatDeadline renders t the way the listings endpoint expects.
func FormatDeadline(t time.Time) string {
	return t.UTC().Format(DeadlineLayout)
}

// Grants returns all grants.
func (c *Client) Grants(ctx context.Context) ([]domain.Grant, error) {
	q := url.Values{}
	q.Set("category", string(domain.CategoryGrants))

	var resp struct {
		Grants []domain.Grant `json:"grants"`
	}
	if err := c.getJSON(ctx, listingsPath, q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch grants: %w", err)
	}
	if resp.Grants == nil {
		resp.Grants = []domain.Grant{}
	}
	return resp.Grants, nil
}

// Bounties returns bounties matching query.
func (c *Client) Bounties(ctx context.Context, query BountyQuery) ([]domain.Bounty, error) {
	q := url.Values{}
	q.Set("category", string(domain.CategoryBounties))
	if query.Take > 0 {
		q.Set("take", strconv.Itoa(query.Take))
	}
	if !query.Deadline.IsZero() {
		q.Set("deadline", FormatDeadline(query.Deadline))
	}

	var resp struct {
		Bounties []domain.Bounty `json:"bounties"`
	}
	if err := c.getJSON(ctx, listingsPath, q, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch bounties: %w", err)
	}
	if resp.Bounties == nil {
		resp.Bounties = []domain.Bounty{}
	}
	return resp.Bounties, nil
}
