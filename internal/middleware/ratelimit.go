package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/reportguard-backend/internal/respond"
	"github.com/AnshRaj112/reportguard-backend/pkg/clientip"
)

const (
	// RateLimitWindow is 120 seconds
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 25
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked
	BlockedIPDuration = 24 * time.Hour
)

// RedisLimiter is a fixed-window per-IP limiter shared by every instance
// through Redis. An IP that exceeds the window is blocked for BlockDuration.
// Redis errors let the request through.
type RedisLimiter struct {
	client        *redis.Client
	Window        time.Duration
	MaxRequests   int
	BlockDuration time.Duration
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		client:        client,
		Window:        RateLimitWindow,
		MaxRequests:   RateLimitMaxRequests,
		BlockDuration: BlockedIPDuration,
	}
}

func (l *RedisLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := clientip.RealClientIP(r)

		blocked, err := l.IsBlocked(ctx, ip)
		if err == nil && blocked {
			respond.Message(w, http.StatusTooManyRequests, "Your IP has been temporarily blocked due to excessive requests. Please try again later.")
			return
		}

		key := RateLimitKeyPrefix + ip
		count, err := l.client.Incr(ctx, key).Result()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(ctx, key, l.Window)
		}

		if count > int64(l.MaxRequests) {
			if err := l.client.Set(ctx, BlockedIPKeyPrefix+ip, "1", l.BlockDuration).Err(); err != nil {
				log.Printf("failed to block %s: %v", ip, err)
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(l.Window.Seconds())))
			respond.Message(w, http.StatusTooManyRequests, "Rate limit exceeded. Your IP has been temporarily blocked. Please try again later.")
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.MaxRequests))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(l.MaxRequests)-count, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(l.Window).Unix(), 10))

		next.ServeHTTP(w, r)
	})
}

// Unblock removes an IP from the blocked list.
func (l *RedisLimiter) Unblock(ctx context.Context, ip string) error {
	return l.client.Del(ctx, BlockedIPKeyPrefix+ip).Err()
}

// IsBlocked checks if an IP is currently blocked.
func (l *RedisLimiter) IsBlocked(ctx context.Context, ip string) (bool, error) {
	n, err := l.client.Exists(ctx, BlockedIPKeyPrefix+ip).Result()
	return n > 0, err
}
