package utils

import (
	"github.com/gin-gonic/gin"
)

// GetRealIP returns the client address used for rate limiting and logging.
// X-Forwarded-For and X-Real-IP are honored only when the direct peer is one
// of the engine's trusted proxies (see gin.Engine.SetTrustedProxies), so a
// client cannot pick its own rate limit key.
func GetRealIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return c.RemoteIP()
}
