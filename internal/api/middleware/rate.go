package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/logging"
	"github.com/mesaverdecleaning/site/internal/metrics"
	"github.com/mesaverdecleaning/site/internal/ratelimit"
	"github.com/mesaverdecleaning/site/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// GlobalRateLimit caps the rate of the routes it is mounted on, shared by all
// clients. It protects the outbound providers from a flood that spreads over
// many addresses. A non-positive rps disables it.
func GlobalRateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(common.MsgTooManyRequests, nil))
			return
		}
		c.Next()
	}
}

// ContactRateLimit applies the per-address fixed window limiter. A limiter
// error lets the request through.
func ContactRateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.GetRealIP(c)

		d, err := l.Allow(c.Request.Context(), clientIP)
		if err != nil {
			logging.GetGlobalLogger().Warn("Rate limiter unavailable, allowing request from %s: %v", clientIP, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining()))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))

		if !d.Allowed {
			retryAfter := int((d.RetryAfter(time.Now()) + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			metrics.IncrementSubmission(metrics.OutcomeRateLimited)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.NewErrorResponse(common.MsgTooManyRequests, nil))
			return
		}

		c.Next()
	}
}
