package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/robby/earn/internal/auth"
	"github.com/robby/earn/internal/domain"
)

const sessionPath = "/auth/session"

// Session returns the current session, or nil when signed out.
// No stored token short-circuits to a signed-out result without a request.
func (c *Client) Session(ctx context.Context) (*domain.Session, error) {
	if c.tokens == nil {
		return nil, nil
	}
	if _, err := c.tokens.GetToken(); err != nil {
		if errors.Is(err, auth.ErrNoToken) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}

	// The endpoint answers {} for an invalid or expired session.
	var resp struct {
		User    *domain.SessionUser `json:"user"`
		Expires string              `json:"expires"`
	}
	if err := c.getJSON(ctx, sessionPath, url.Values{}, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}
	if resp.User == nil {
		return nil, nil
	}
	return &domain.Session{User: *resp.User, Expires: resp.Expires}, nil
}

// ResolveSession maps a session lookup onto the status enumeration.
// Lookup failures resolve to unauthenticated; the status never stays loading.
func (c *Client) ResolveSession(ctx context.Context) (*domain.Session, domain.SessionStatus, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return nil, domain.SessionUnauthenticated, err
	}
	if sess == nil {
		return nil, domain.SessionUnauthenticated, nil
	}
	return sess, domain.SessionAuthenticated, nil
}
