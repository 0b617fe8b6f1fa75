package tui

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/robby/earn/internal/domain"
)

// formatReward renders an amount with its token, e.g. "1,500 USDC".
func formatReward(amount float64, token string) string {
	if amount <= 0 {
		return "Variable"
	}
	s := humanize.Commaf(amount)
	if token != "" {
		s += " " + token
	}
	return s
}

// dueLabel describes a deadline relative to now.
func dueLabel(deadline, now time.Time) string {
	if deadline.IsZero() {
		return "rolling"
	}
	d := deadline.Sub(now)
	switch {
	case d <= 0:
		return "closed " + humanize.RelTime(deadline, now, "ago", "")
	case d < time.Hour:
		return fmt.Sprintf("due in %dm", int(d.Minutes())+1)
	case d < 48*time.Hour:
		return fmt.Sprintf("due in %dh", int(d.Hours()))
	default:
		return fmt.Sprintf("due in %dd", int(d.Hours()/24))
	}
}

// bountyURL is the public page of a bounty.
func bountyURL(site string, b domain.Bounty) string {
	kind := b.Type
	if kind == "" {
		kind = "bounty"
	}
	return fmt.Sprintf("%s/listings/%s/%s", strings.TrimRight(site, "/"), url.PathEscape(kind), url.PathEscape(b.Slug))
}

// grantURL is the public page of a grant.
func grantURL(site string, g domain.Grant) string {
	return fmt.Sprintf("%s/grants/%s", strings.TrimRight(site, "/"), url.PathEscape(g.Slug))
}

func viewAllURL(site string) string {
	return strings.TrimRight(site, "/") + "/all"
}

func signUpURL(site string) string {
	return strings.TrimRight(site, "/") + "/signup"
}
