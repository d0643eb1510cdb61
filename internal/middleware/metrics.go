package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/metrics"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Inc()
	}
}
