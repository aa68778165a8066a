package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoints []EndpointConfig) *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: endpoints,
	}
}

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	bucket := newTokenBucket(3, 0.001) // effectively no refill during the test

	for i := 0; i < 3; i++ {
		assert.True(t, bucket.allow(), "request %d within burst should pass", i)
	}
	assert.False(t, bucket.allow(), "request beyond burst should be denied")
}

func TestTokenBucket_Refill(t *testing.T) {
	bucket := newTokenBucket(1, 1000) // refills 1000 tokens/s

	require.True(t, bucket.allow())
	require.False(t, bucket.allow())

	time.Sleep(5 * time.Millisecond)
	assert.True(t, bucket.allow(), "bucket should refill over time")
}

func TestLimiter_EndpointLimit(t *testing.T) {
	limiter := NewLimiter(testConfig([]EndpointConfig{
		{Path: "/v1/auth/login", Method: "POST", Limit: 20, Window: time.Minute, Burst: 2},
	}))
	defer limiter.Stop()

	allowed, info := limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 20, info.Limit)

	allowed, _ = limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
	assert.True(t, allowed)

	allowed, info = limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
	assert.False(t, allowed, "third request should exceed burst of 2")
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_PerClientIsolation(t *testing.T) {
	limiter := NewLimiter(testConfig([]EndpointConfig{
		{Path: "/v1/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 1},
	}))
	defer limiter.Stop()

	allowed, _ := limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
	require.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = limiter.Allow("5.6.7.8", "/v1/auth/login", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig([]EndpointConfig{
		{Path: "/v1/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 1},
	})
	cfg.Whitelist["10.0.0.1"] = true
	cfg.Blacklist["6.6.6.6"] = true

	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/v1/auth/login", "POST")
		assert.True(t, allowed, "whitelisted client is never limited")
	}

	allowed, _ := limiter.Allow("6.6.6.6", "/v1/auth/login", "POST")
	assert.False(t, allowed, "blacklisted client is always denied")
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/v1/auth/login", "POST")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/v1/interviews", Method: "POST", Limit: 100, Window: time.Minute},
		{Path: "/v1/interviews/", Method: "POST", Limit: 60, Window: time.Minute},
		{Path: "/v1/auth/login", Method: "POST", Limit: 20, Window: time.Minute},
	}

	t.Run("health is unlimited", func(t *testing.T) {
		match := MatchEndpoint("/health", "GET", configs)
		require.NotNil(t, match)
		assert.Equal(t, 0, match.Limit)
	})

	t.Run("exact match wins over prefix", func(t *testing.T) {
		match := MatchEndpoint("/v1/interviews", "POST", configs)
		require.NotNil(t, match)
		assert.Equal(t, 100, match.Limit)
	})

	t.Run("prefix match for subpaths", func(t *testing.T) {
		match := MatchEndpoint("/v1/interviews/abc/test-reminder", "POST", configs)
		require.NotNil(t, match)
		assert.Equal(t, 60, match.Limit)
	})

	t.Run("method must match", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/v1/auth/login", "GET", configs))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, MatchEndpoint("/v1/applications", "GET", configs))
	})
}

func TestParseIPList(t *testing.T) {
	assert.Empty(t, parseIPList(""))

	list := parseIPList("1.2.3.4, 5.6.7.8 ,")
	assert.True(t, list["1.2.3.4"])
	assert.True(t, list["5.6.7.8"])
	assert.Len(t, list, 2)
}
