package middleware

import (
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/metrics"

	"github.com/gin-gonic/gin"
)

// ConfigGuard rejects requests with 500 while ready reports false. It runs
// before anything that would count or inspect the request.
func ConfigGuard(ready func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !ready() {
			metrics.IncrementSubmission(metrics.OutcomeNotConfigured)
			c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(common.MsgMailNotConfigured, nil))
			return
		}
		c.Next()
	}
}
