package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"rpg_tracker/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter initializes a shared Redis client used by the middleware.
// Provide addr (host:port), password and db index. If connection fails, nil is
// returned and the limiters fall back to process-local counters.
func InitRedisRateLimiter(addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// on ping failure keep the server available without redis
		logger.Warn("redis unavailable, using local rate limits", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}
	redisClient = client
	return client
}

// SetRedisClient replaces the shared client. nil disables Redis.
func SetRedisClient(client *redis.Client) {
	redisClient = client
}

// incrWindow implements a fixed window with INCR/EXPIRE.
func incrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if val == 1 {
		// first increment, set expiry
		redisClient.Expire(ctx, key, window)
	}
	return val, nil
}

// RedisRateLimit implements a simple fixed-window rate limiter per client IP.
// key format: rl:<window_seconds>:<identifier>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(window)
	return func(c *gin.Context) {
		ident := c.ClientIP()

		var val int64
		if redisClient == nil {
			val = local.hit(ident)
		} else {
			key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
			var err error
			val, err = incrWindow(c.Request.Context(), key, window)
			if err != nil {
				// on Redis error, fail-open (allow) but set header
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
