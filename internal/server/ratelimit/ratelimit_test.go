package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/applicant-screener/internal/config"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(cfg *Config) (*Limiter, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = c.now
	return l, c
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/x", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.InDelta(t, 20*time.Second, info.RetryAfter, float64(time.Millisecond))
}

func TestLimiter_Refill(t *testing.T) {
	l, c := newTestLimiter(&Config{Enabled: true, DefaultLimit: 3, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow("client", "/x", "GET")
	}
	allowed, _ := l.Allow("client", "/x", "GET")
	require.False(t, allowed)

	c.t = c.t.Add(21 * time.Second)
	allowed, _ = l.Allow("client", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("client", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_SeparateBuckets(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("b", "/x", "GET")
	assert.True(t, allowed, "other client")
	allowed, _ = l.Allow("a", "/y", "GET")
	assert.True(t, allowed, "other endpoint")
	allowed, _ = l.Allow("a", "/x", "POST")
	assert.True(t, allowed, "other method")
	allowed, _ = l.Allow("a", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_EndpointConfig(t *testing.T) {
	l, _ := newTestLimiter(FromServerConfig(config.Default().Server))
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/jobs/import", "POST")
		require.True(t, allowed)
		assert.Equal(t, 20, info.Limit)
	}
	allowed, _ := l.Allow("c", "/jobs/import", "POST")
	assert.False(t, allowed)

	allowed, info := l.Allow("c", "/evaluate", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 300, info.Limit)
}

func TestLimiter_DisabledAndWhitelist(t *testing.T) {
	off, _ := newTestLimiter(&Config{Enabled: false})
	defer off.Stop()
	for i := 0; i < 10; i++ {
		allowed, _ := off.Allow("a", "/x", "GET")
		assert.True(t, allowed)
	}

	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, Whitelist: map[string]bool{"trusted": true}})
	defer l.Stop()
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("trusted", "/x", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("a", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, c := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute, IdleTTL: time.Hour})
	defer l.Stop()

	l.Allow("old", "/x", "GET")
	c.t = c.t.Add(2 * time.Hour)
	l.Allow("new", "/x", "GET")

	l.cleanup()
	assert.Len(t, l.buckets, 1)
	_, ok := l.buckets["new:GET:/x"]
	assert.True(t, ok)
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Millisecond})
	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/jobs/import", Method: "POST", Limit: 1},
		{Path: "/jobs/", Method: "POST", Limit: 2},
	}

	assert.Equal(t, 1, MatchEndpoint("/jobs/import", "POST", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/jobs/other", "POST", configs).Limit)
	assert.Nil(t, MatchEndpoint("/jobs/import", "GET", configs))
	assert.Nil(t, MatchEndpoint("/evaluate", "POST", configs))
	assert.Equal(t, 0, MatchEndpoint("/health", "GET", configs).Limit)
}
