package http

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs basic request details and latency. Errors attached to the
// context by handlers are appended to the line.
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = log.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if len(c.Errors) > 0 {
			logger.Printf(
				"request method=%s path=%s status=%d duration=%s err=%q",
				c.Request.Method,
				c.Request.URL.Path,
				c.Writer.Status(),
				time.Since(start),
				c.Errors.String(),
			)
			return
		}
		logger.Printf(
			"request method=%s path=%s status=%d duration=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
