package security

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestConfig holds request-level security settings
type RequestConfig struct {
	RequestTimeout time.Duration `json:"request_timeout"`
	TrustedProxies []string      `json:"trusted_proxies"`
}

// DefaultRequestConfig returns secure defaults
func DefaultRequestConfig() RequestConfig {
	return RequestConfig{
		RequestTimeout: 30 * time.Second,
		TrustedProxies: []string{"127.0.0.1", "::1"},
	}
}

// ValidateContentType rejects request bodies that are not JSON. The
// prediction API only ever accepts JSON payloads.
func ValidateContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		contentType := c.GetHeader("Content-Type")

		if c.Request.Method == http.MethodPost && contentType != "" {
			if !strings.Contains(strings.ToLower(contentType), "application/json") {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{
					"error": "unsupported content type",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// RequestTimeout enforces a deadline on every request context
func RequestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Timeout", strconv.Itoa(int(timeout.Seconds())))

		c.Next()
	}
}
