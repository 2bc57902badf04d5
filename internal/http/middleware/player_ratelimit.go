package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// PlayerRateLimit limits actions per account (not per IP).
// Requires JWT middleware to run before this.
func PlayerRateLimit(scope string, maxActions int, window time.Duration) gin.HandlerFunc {
	local := newLocalLimiter(window)
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		ident := strconv.FormatInt(claims.AccountID, 10)

		var val int64
		if redisClient == nil {
			val = local.hit(ident)
		} else {
			key := "player_rl:" + scope + ":" + ident + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			var err error
			val, err = incrWindow(c.Request.Context(), key, window)
			if err != nil {
				c.Header("X-PlayerRateLimit-Error", "redis-error")
				c.Next()
				return
			}
		}

		// Set headers for client info
		c.Header("X-PlayerRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-PlayerRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues(scope).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       scope + " rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(scope).Inc()
		c.Next()
	}
}
