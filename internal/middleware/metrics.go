package middleware

import (
	"strconv"
	"time"

	"github.com/mesaverdecleaning/site/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records the duration of every routed request. Unmatched paths are
// grouped under a single label.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
