// Package api provides an HTTP client for the earn listings and session endpoints.
// It implements a deep module interface - simple methods hiding query encoding,
// authentication cookies and request throttling.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robby/earn/internal/auth"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://earn.superteam.fun/api"

// SessionCookie is the cookie name the site reads the session token from.
const SessionCookie = "next-auth.session-token"

// ErrUnexpectedStatus is returned for any non-2xx response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// Client is an HTTP client for the earn API.
// It is safe for concurrent use; the listings loader issues two requests at once.
type Client struct {
	http    *http.Client
	baseURL *url.URL
	tokens  auth.TokenProvider
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenProvider sets where the session token comes from.
// Without one the client never sends a session cookie.
func WithTokenProvider(p auth.TokenProvider) Option {
	return func(c *Client) { c.tokens = p }
}

// WithRateLimit throttles outgoing requests to reqPerSec with the given burst.
func WithRateLimit(reqPerSec float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(reqPerSec), burst) }
}

// New creates a client rooted at baseURL (e.g. "https://earn.superteam.fun/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: missing scheme or host", baseURL)
	}

	c := &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: u,
		limiter: rate.NewLimiter(rate.Limit(4), 4),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// endpoint joins path onto the base URL and attaches the query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
// This is a helper method to avoid repeating throttling and cookie setup.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token, err := c.tokens.GetToken(); err == nil {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: %s", ErrUnexpectedStatus, resp.Status, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
