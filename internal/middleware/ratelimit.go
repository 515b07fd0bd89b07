package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter counts requests per key in Redis
type Limiter struct {
	r *redis.Client
}

// NewLimiter wraps a Redis client. A nil client yields a nil limiter, which never limits.
func NewLimiter(r *redis.Client) *Limiter {
	if r == nil {
		return nil
	}
	return &Limiter{r: r}
}

// Allow bumps the counter for key and reports whether it is still within limit.
// Every call resets the key's expiry, so a client that keeps retrying stays
// locked out until it has been quiet for a full window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	k := "rl:" + key
	pipe := l.r.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

// LimitHTTP rejects requests over limit per client address with 429.
// Limiter errors are logged and the request is let through.
func (l *Limiter) LimitHTTP(scope string, limit int64, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil || limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientIP(r)
			ok, n, err := l.Allow(r.Context(), key, limit, window)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("Rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				log.Warn().Str("key", key).Int64("count", n).Msg("Rate limit exceeded")
				w.Header().Set("Retry-After", retryAfter(window))
				respondError(w, "Too many attempts, try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfter(window time.Duration) string {
	secs := int64(window / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
