package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Paths hit by probes and scrapers; logging them drowns out real traffic.
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Logger writes one access-log line per request, tagged with the request ID
// and, for authenticated calls, the acting user.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		if quietPaths[path] && c.Writer.Status() < 400 {
			return
		}

		if query := c.Request.URL.RawQuery; query != "" {
			path = path + "?" + query
		}

		user := c.GetString("user_id")
		if user == "" {
			user = "-"
		}

		log.Printf("[%s] %s %s - %d - %v - %s - user=%s",
			c.GetString("request_id"),
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			user,
		)
	}
}
