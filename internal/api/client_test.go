package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robby/earn/internal/auth"
	"github.com/robby/earn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedToken string

func (f fixedToken) GetToken() (string, error) {
	if f == "" {
		return "", auth.ErrNoToken
	}
	return string(f), nil
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", append([]Option{WithRateLimit(1000, 10)}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.baseURL.String())
}

func TestGrants(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/listings/", r.URL.Path)
		assert.Equal(t, "grants", r.URL.Query().Get("category"))
		assert.Empty(t, r.URL.Query().Get("take"))
		assert.Empty(t, r.URL.Query().Get("deadline"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"grants":[{"id":"g1","title":"Build on Solana","slug":"build","shortDescription":"Fund your idea","rewardAmount":10000,"sponsor":{"name":"Foundation"}}]}`))
	})

	grants, err := c.Grants(context.Background())
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, "g1", grants[0].ID)
	assert.Equal(t, "Foundation", grants[0].Sponsor.Name)
	assert.Equal(t, 10000.0, grants[0].RewardAmount)
}

func TestGrants_EmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	grants, err := c.Grants(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, grants)
	assert.Empty(t, grants)
}

func TestBounties_QueryParameters(t *testing.T) {
	deadline := time.Date(2026, 9, 19, 8, 30, 0, 0, time.FixedZone("X", 2*3600))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "bounties", q.Get("category"))
		assert.Equal(t, "20", q.Get("take"))
		assert.Equal(t, "2026-09-19T06:30:00.000Z", q.Get("deadline"))
		w.Write([]byte(`{"bounties":[{"id":"b1","title":"Write a thread","deadline":"2026-10-30T00:00:00.000Z","status":"OPEN"}]}`))
	})

	bounties, err := c.Bounties(context.Background(), BountyQuery{Take: 20, Deadline: deadline})
	require.NoError(t, err)
	require.Len(t, bounties, 1)
	assert.Equal(t, "b1", bounties[0].ID)
	assert.Equal(t, domain.BountyStatusOpen, bounties[0].Status)
	assert.Equal(t, 2026, bounties[0].Deadline.Year())
}

func TestBounties_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database down", http.StatusInternalServerError)
	})

	_, err := c.Bounties(context.Background(), BountyQuery{Take: 20})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Contains(t, err.Error(), "database down")
}

func TestBounties_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"bounties":`))
	})

	_, err := c.Bounties(context.Background(), BountyQuery{})
	assert.Error(t, err)
}

func TestSession(t *testing.T) {
	t.Run("no token skips request", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request to %s", r.URL.Path)
		}, WithTokenProvider(fixedToken("")))

		sess, status, err := c.ResolveSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, domain.SessionUnauthenticated, status)
	})

	t.Run("valid session", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/auth/session", r.URL.Path)
			if cookie, err := r.Cookie(SessionCookie); assert.NoError(t, err) {
				assert.Equal(t, "tok", cookie.Value)
			}
			w.Write([]byte(`{"user":{"id":"u1","name":"Ada"},"expires":"2026-11-01T00:00:00.000Z"}`))
		}, WithTokenProvider(fixedToken("tok")))

		sess, status, err := c.ResolveSession(context.Background())
		require.NoError(t, err)
		require.NotNil(t, sess)
		assert.Equal(t, "Ada", sess.User.Name)
		assert.Equal(t, domain.SessionAuthenticated, status)
	})

	t.Run("expired session", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}, WithTokenProvider(fixedToken("stale")))

		sess, status, err := c.ResolveSession(context.Background())
		require.NoError(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, domain.SessionUnauthenticated, status)
	})

	t.Run("request failure", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}, WithTokenProvider(fixedToken("tok")))

		sess, status, err := c.ResolveSession(context.Background())
		assert.Error(t, err)
		assert.Nil(t, sess)
		assert.Equal(t, domain.SessionUnauthenticated, status)
	})
}

func TestFormatDeadline(t *testing.T) {
	ts := time.Date(2026, 1, 31, 23, 59, 59, 123456789, time.UTC)
	assert.Equal(t, "2026-01-31T23:59:59.123Z", FormatDeadline(ts))
}
