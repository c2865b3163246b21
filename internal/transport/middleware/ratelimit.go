package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/staff-attendance/internal"
	"github.com/frahmantamala/staff-attendance/internal/transport"
	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "staff:ratelimit:"

// RateLimiter counts requests per client IP in fixed windows. A client over limit is
// blocked for blockDuration. Redis failures let the request through.
func RateLimiter(client redis.Cmdable, limit int, window, blockDuration time.Duration, name string, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()

			key := rateLimitPrefix + name + ":ip:" + ClientIP(r)
			blockKey := key + ":blocked"

			if ttl, err := client.TTL(ctx, blockKey).Result(); err == nil && ttl > 0 {
				tooMany(w, base, ttl)
				return
			}

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				base.Logger.Warn("rate limiter unavailable, allowing request", "error", err, "limiter", name)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, window)
			}

			if count > int64(limit) {
				client.Set(ctx, blockKey, "1", blockDuration)
				base.Logger.Warn("rate limit exceeded", "limiter", name, "client", ClientIP(r), "count", count)
				tooMany(w, base, blockDuration)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-int(count)))

			next.ServeHTTP(w, r)
		})
	}
}

func tooMany(w http.ResponseWriter, base *transport.BaseHandler, wait time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(wait.Round(time.Second).Seconds())))
	base.HandleServiceError(w, internal.NewTooManyRequestsError("Too many requests, try again in "+wait.Round(time.Second).String()))
}
