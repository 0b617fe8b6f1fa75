// Package domain defines the normalized listing types served by the earn API.
// These types carry only the fields the landing view displays; everything else
// in an API response is ignored on decode.
package domain

import "time"

// Sponsor is the organization that funds a listing.
type Sponsor struct {
	Name string `json:"name"`
	Logo string `json:"logo"` // Logo URL, unused by the terminal view
}

// Bounty is a time-boxed paid task listing with a deadline.
type Bounty struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Type               string    `json:"type"`         // "bounty", "project" or "hackathon"
	Status             string    `json:"status"`       // "OPEN", "REVIEW", "CLOSED"
	Token              string    `json:"token"`        // Reward token symbol (e.g., "USDC")
	RewardAmount       float64   `json:"rewardAmount"` // Zero when the reward is variable
	Deadline           time.Time `json:"deadline"`
	IsWinnersAnnounced bool      `json:"isWinnersAnnounced"`
	Sponsor            Sponsor   `json:"sponsor"`
}

// Grant is a non-deadline funding listing.
type Grant struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Slug             string  `json:"slug"`
	ShortDescription string  `json:"shortDescription"`
	RewardAmount     float64 `json:"rewardAmount"`
	Token            string  `json:"token"`
	Sponsor          Sponsor `json:"sponsor"`
}

// Category selects which listing family the API returns.
type Category string

// Category constants accepted by the listings endpoint.
const (
	CategoryGrants   Category = "grants"
	CategoryBounties Category = "bounties"
)

// Session is the authenticated user's session as reported by the site.
type Session struct {
	User    SessionUser `json:"user"`
	Expires string      `json:"expires"`
}

// SessionUser identifies the signed-in user.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SessionStatus is the resolution state of the session check.
type SessionStatus string

// SessionStatus constants.
const (
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionUnauthenticated SessionStatus = "unauthenticated"
)

// BountyStatusOpen is the API status of a bounty still accepting submissions.
const BountyStatusOpen = "OPEN"
