package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLimiter(client)
	l.MaxRequests = max
	return l, mr
}

func hit(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/userReports", nil)
	req.RemoteAddr = ip + ":5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRedisLimiterBlocksAfterLimit(t *testing.T) {
	l, mr := newTestLimiter(t, 3)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 3; i++ {
		rec := hit(h, "10.0.0.1")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2").Code, "limits are per IP")

	rec := hit(h, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "120", rec.Header().Get("Retry-After"))
	assert.True(t, mr.Exists(BlockedIPKeyPrefix+"10.0.0.1"))

	// The window expiring does not lift the block.
	mr.FastForward(RateLimitWindow + time.Second)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1").Code)

	require.NoError(t, l.Unblock(context.Background(), "10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
}

func TestRedisLimiterHeaders(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := hit(h, "10.0.0.9")
	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, RateLimitWindow, mr.TTL(RateLimitKeyPrefix+"10.0.0.9"))
}

func TestRedisLimiterFailsOpen(t *testing.T) {
	l, mr := newTestLimiter(t, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1").Code)
	}
}
