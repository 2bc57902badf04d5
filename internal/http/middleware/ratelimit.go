package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// localLimiter is a process-local fixed window counter, used when Redis
// is not configured.
type localLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
	window  time.Duration
	now     func() time.Time
}

func newLocalLimiter(window time.Duration) *localLimiter {
	return &localLimiter{clients: make(map[string]*clientInfo), window: window, now: time.Now}
}

// hit counts one request for key and returns the count in the current window.
func (l *localLimiter) hit(key string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	ci, ok := l.clients[key]
	if !ok || now.Sub(ci.start) >= l.window {
		// заодно чистим протухшие окна
		if len(l.clients) > 10000 {
			for k, v := range l.clients {
				if now.Sub(v.start) >= l.window {
					delete(l.clients, k)
				}
			}
		}
		l.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return int64(ci.count)
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	l := newLocalLimiter(window)
	return func(c *gin.Context) {
		if l.hit(c.ClientIP()) > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
