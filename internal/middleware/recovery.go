package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/metrics"
)

// Recovery converts a handler panic into a 500 response. The request ID is
// echoed in the payload so a user-reported error can be matched to the
// stack trace in the logs.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				metrics.PanicsRecoveredTotal.Inc()
				log.Printf("[%s] panic recovered: %v\n%s", requestID, err, debug.Stack())

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":      "Internal server error",
					"request_id": requestID,
				})
			}
		}()
		c.Next()
	}
}
