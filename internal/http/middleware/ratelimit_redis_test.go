package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetRedisClient(client)
	t.Cleanup(func() {
		SetRedisClient(nil)
		_ = client.Close()
	})
	return mr
}

func limitedEngine(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/test", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func hit(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRedisRateLimit(t *testing.T) {
	mr := useMiniredis(t)
	r := limitedEngine(RedisRateLimit(2, time.Minute))

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, hit(r).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)

	ttl := mr.TTL("rl:60:10.0.0.1")
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	// next window
	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r).Code)
}

func TestRedisRateLimitFailsOpen(t *testing.T) {
	mr := useMiniredis(t)
	r := limitedEngine(RedisRateLimit(1, time.Minute))
	mr.Close()

	for i := 0; i < 3; i++ {
		w := hit(r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "redis-error", w.Header().Get("X-RateLimit-Error"))
	}
}

func TestRedisRateLimitFallsBackToLocal(t *testing.T) {
	SetRedisClient(nil)
	r := limitedEngine(RedisRateLimit(1, time.Minute))

	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
}

func TestLocalLimiterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLocalLimiter(time.Second)
	l.now = func() time.Time { return now }

	assert.Equal(t, int64(1), l.hit("a"))
	assert.Equal(t, int64(2), l.hit("a"))
	assert.Equal(t, int64(1), l.hit("b"))

	now = now.Add(time.Second)
	assert.Equal(t, int64(1), l.hit("a"))
}

func TestSimpleRateLimit(t *testing.T) {
	r := limitedEngine(SimpleRateLimit(2, time.Minute))
	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusOK, hit(r).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r).Code)
}
