package middleware

import (
	"time"

	"github.com/mesaverdecleaning/site/internal/api/constants"
	"github.com/mesaverdecleaning/site/internal/logging"
	"github.com/mesaverdecleaning/site/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one access line per request through the given logger.
// The logger drops the line unless request logging is enabled.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.LogHTTPRequest(
			c.Request.Method,
			path,
			utils.GetRealIP(c),
			c.GetString(constants.ContextKeyRequestID),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
