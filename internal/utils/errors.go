package utils

import (
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/logging"

	"github.com/gin-gonic/gin"
)

// LogError logs an error with a message using the singleton logger
func LogError(err error, message string) {
	logging.GetGlobalLogger().Error("%s: %v", message, err)
}

// HandleAPIError logs err and writes the error envelope. The error text is
// only returned as details outside release mode.
func HandleAPIError(c *gin.Context, err error, status int, message string) {
	logging.GetGlobalLogger().LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		message,
		err,
	)

	var details interface{}
	if err != nil && gin.Mode() != gin.ReleaseMode {
		details = err.Error()
	}

	c.AbortWithStatusJSON(status, common.NewErrorResponse(message, details))
}

// HandleInternalError responds with a generic 500
func HandleInternalError(c *gin.Context, err error) {
	HandleAPIError(c, err, http.StatusInternalServerError, common.MsgInternalServer)
}
