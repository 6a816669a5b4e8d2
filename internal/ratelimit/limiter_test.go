package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bioclust/gene-cluster-predictor/internal/monitoring"
)

func newFallbackLimiter(cfg Config) *RateLimiter {
	redisClient := &RedisClient{enabled: false}
	return NewRateLimiter(redisClient, cfg, monitoring.NewMetrics())
}

func TestRateLimiterFallbackMode(t *testing.T) {
	limiter := newFallbackLimiter(Config{IPLimitPerMin: 10, BurstMultiplier: 1})
	defer limiter.Close()

	ctx := context.Background()
	key := "test:ip:10.0.0.1"
	r := Rate{Limit: 5, Period: time.Minute}

	for i := 0; i < 5; i++ {
		result, err := limiter.Allow(ctx, key, r)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
		assert.Equal(t, 5, result.Limit)
	}

	result, err := limiter.Allow(ctx, key, r)
	require.NoError(t, err)
	assert.False(t, result.Allowed, "6th request should be blocked")
	assert.Greater(t, result.RetryAfter, time.Duration(0))
}

func TestRateLimiterBurstCapacity(t *testing.T) {
	limiter := newFallbackLimiter(Config{IPLimitPerMin: 10, BurstMultiplier: 2})
	defer limiter.Close()

	ctx := context.Background()
	r := Rate{Limit: 5, Period: time.Minute}

	allowedCount := 0
	for i := 0; i < 15; i++ {
		result, err := limiter.Allow(ctx, "test:burst", r)
		require.NoError(t, err)
		if result.Allowed {
			allowedCount++
		}
	}

	// burst multiplier of 2 doubles the initial bucket
	assert.Equal(t, 10, allowedCount)
}

func TestRateLimiterIsolatesKeys(t *testing.T) {
	limiter := newFallbackLimiter(Config{IPLimitPerMin: 2, BurstMultiplier: 1})
	defer limiter.Close()

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := limiter.AllowIP(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	blocked, err := limiter.AllowIP(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed)

	other, err := limiter.AllowIP(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "a different IP must not share the bucket")
}

func TestIPRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := newFallbackLimiter(Config{IPLimitPerMin: 3, BurstMultiplier: 1})
	defer limiter.Close()

	r := gin.New()
	r.Use(limiter.IPRateLimitMiddleware())
	r.POST("/api/predict", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/predict", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)

		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	}

	assert.Equal(t, []int{200, 200, 200, 429, 429}, statuses)
}

func TestStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := newFallbackLimiter(DefaultConfig())
	defer limiter.Close()

	r := gin.New()
	r.GET("/ratelimit/status", limiter.StatusHandler())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ratelimit/status", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ip_per_minute")
	assert.Contains(t, w.Body.String(), "redis_enabled")
}
