// Package tui provides the Bubble Tea models for the earn landing view.
package tui

import "github.com/robby/earn/internal/domain"

// listingsLoadedMsg is emitted when a load cycle settles. err is for
// diagnostics only; the view renders empty sections on failure.
type listingsLoadedMsg struct {
	err error
}

// sessionResolvedMsg carries the resolved session status.
type sessionResolvedMsg struct {
	session *domain.Session
	status  domain.SessionStatus
}

// promoShownMsg is emitted when the promotion gate opens its prompt.
type promoShownMsg struct{}

// openedMsg reports the result of opening a URL in the browser.
type openedMsg struct {
	url string
	err error
}
