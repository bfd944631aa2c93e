package middleware

import (
	"bytes"
	"io"
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/constants"
	"github.com/mesaverdecleaning/site/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// BodyLimit reads the request body once, rejects it with 413 when it exceeds
// maxBodySize and restores it so validators and handlers can read it again.
// The bytes are also stored under constants.ContextKeyRawBody.
func BodyLimit(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only requests that carry a body
		if c.Request.Body == nil || (c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch) {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			abortTooLarge(c)
			return
		}

		bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodySize+1))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, common.NewErrorResponse(common.MsgInvalidFormData, nil))
			return
		}

		if int64(len(bodyBytes)) > maxBodySize {
			abortTooLarge(c)
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		c.Set(constants.ContextKeyRawBody, bodyBytes)

		c.Next()
	}
}

func abortTooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, common.NewErrorResponse(common.MsgRequestBodyTooLarge, nil))
}
