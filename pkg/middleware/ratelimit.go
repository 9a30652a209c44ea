package middleware

import (
	"fmt"
	"net/http"
	"time"

	"library-seating/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window per-user limiter on top of Redis. A nil client
// disables limiting so the service degrades gracefully when Redis is down.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	if rdb == nil || limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := rateKey(r, window)

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				logger.Warn("Rate limit: redis error, allowing request",
					zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

			if count > int64(limit) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key), zap.Int64("count", count))
				utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rateKey buckets by acting user when authenticated, remote address otherwise.
func rateKey(r *http.Request, window time.Duration) string {
	subject := r.RemoteAddr
	if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
		subject = userID.String()
	}
	bucket := time.Now().Unix() / int64(window/time.Second)
	return fmt.Sprintf("ratelimit:%s:%d", subject, bucket)
}
