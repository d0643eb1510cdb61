package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/metrics"
	"github.com/menucraft/menucraft/internal/ratelimit"
)

// RateLimit is the admission filter for API traffic. Register it on the API
// route group only: other paths must never create or touch a bucket.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ratelimit.ClientKey(c.GetHeader("X-Forwarded-For"))

		if !limiter.Allow(key) {
			metrics.RateLimitRejectedTotal.Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
