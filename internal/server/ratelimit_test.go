package server

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowsWithinLimits(t *testing.T) {
	rl := NewRateLimiter(5, 100, 1000, 1<<20)

	for range 5 {
		require.NoError(t, rl.Allow("client-a", 100))
	}
}

func TestRateLimiter_MinuteLimit(t *testing.T) {
	rl := NewRateLimiter(2, 0, 0, 0)

	require.NoError(t, rl.Allow("client-a", 0))
	require.NoError(t, rl.Allow("client-a", 0))

	err := rl.Allow("client-a", 0)
	require.Error(t, err)

	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, "minute", rle.Type)
	assert.Equal(t, 2, rle.Limit)
	assert.LessOrEqual(t, rle.RetryAfter, time.Minute)
}

func TestRateLimiter_HourLimit(t *testing.T) {
	rl := NewRateLimiter(0, 3, 0, 0)

	for range 3 {
		require.NoError(t, rl.Allow("client-a", 0))
	}

	err := rl.Allow("client-a", 0)
	require.Error(t, err)

	var rle *RateLimitError
	require.True(t, errors.As(err, &rle))
	assert.Equal(t, "hour", rle.Type)
}

func TestRateLimiter_DailyRequestQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 2, 0)

	require.NoError(t, rl.Allow("client-a", 0))
	require.NoError(t, rl.Allow("client-a", 0))

	err := rl.Allow("client-a", 0)
	require.Error(t, err)

	var qee *QuotaExceededError
	require.True(t, errors.As(err, &qee))
	assert.Equal(t, "requests", qee.Type)
	assert.Equal(t, int64(2), qee.Limit)
	assert.Equal(t, int64(2), qee.Used)
	assert.True(t, qee.Resets.After(time.Now()))
}

func TestRateLimiter_DailyDataQuota(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 1000)

	require.NoError(t, rl.Allow("client-a", 600))

	err := rl.Allow("client-a", 600)
	require.Error(t, err)

	var qee *QuotaExceededError
	require.True(t, errors.As(err, &qee))
	assert.Equal(t, "data", qee.Type)
	assert.Equal(t, int64(1000), qee.Limit)
	assert.Equal(t, int64(600), qee.Used)
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, 0, 0, 0)

	require.NoError(t, rl.Allow("client-a", 0))
	require.NoError(t, rl.Allow("client-b", 0))
	require.Error(t, rl.Allow("client-a", 0))
	require.Error(t, rl.Allow("client-b", 0))
}

func TestRateLimiter_ZeroLimitsDisableChecks(t *testing.T) {
	rl := NewRateLimiter(0, 0, 0, 0)

	for range 50 {
		require.NoError(t, rl.Allow("client-a", 1<<30))
	}
}

func TestRateLimitError_Message(t *testing.T) {
	err := &RateLimitError{Type: "minute", Limit: 60, RetryAfter: 30 * time.Second}
	assert.Contains(t, err.Error(), "minute")
	assert.Contains(t, err.Error(), "60")
}

func TestQuotaExceededError_Message(t *testing.T) {
	err := &QuotaExceededError{Type: "data", Limit: 1000, Used: 900, Resets: time.Now()}
	assert.Contains(t, err.Error(), "data")
	assert.Contains(t, err.Error(), "900")
}
