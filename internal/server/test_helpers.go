package server

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestServer builds a server backed by the embedded model table for
// handler tests.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	s, err := NewServer(Config{
		CORSOrigin:   "*",
		MaxSnippetKB: 64,
		TimeoutSec:   10,
	})
	require.NoError(t, err)
	return s
}

// newRateLimitedTestServer builds a server with the given limits enabled.
func newRateLimitedTestServer(t *testing.T, perMinute, perHour, perDay int, dataPerDay int64) *Server {
	t.Helper()

	s := newTestServer(t)
	s.rateLimiter = NewRateLimiter(perMinute, perHour, perDay, dataPerDay)
	return s
}
