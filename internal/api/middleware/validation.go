package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/constants"
	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/api/dto/v1/contact"
	"github.com/mesaverdecleaning/site/internal/api/sanitization"
	"github.com/mesaverdecleaning/site/internal/api/validation"
	"github.com/mesaverdecleaning/site/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ValidationMiddleware handles request validation
type ValidationMiddleware struct {
	validate *validator.Validate
}

// NewValidationMiddleware creates a new validation middleware that accepts
// the given services in the contact form
func NewValidationMiddleware(services []string) *ValidationMiddleware {
	return &ValidationMiddleware{
		validate: validation.New(services),
	}
}

// ValidateContactRequest validates a contact form submission and stores it
// under constants.ContextKeyContact
func (m *ValidationMiddleware) ValidateContactRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := readBody(c)
		if err != nil {
			abortInvalid(c, err)
			return
		}

		var req contact.ContactRequest
		if err := json.Unmarshal(bodyBytes, &req); err != nil {
			abortInvalid(c, err)
			return
		}

		sanitization.SanitizeContactRequest(&req)
		if err := m.validate.Struct(&req); err != nil {
			abortInvalid(c, err)
			return
		}

		c.Set(constants.ContextKeyContact, &req)
		c.Next()
	}
}

// readBody returns the body preserved by BodyLimit, or reads and restores it
func readBody(c *gin.Context) ([]byte, error) {
	if raw, ok := c.Get(constants.ContextKeyRawBody); ok {
		if b, ok := raw.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	return bodyBytes, nil
}

func abortInvalid(c *gin.Context, err error) {
	metrics.IncrementSubmission(metrics.OutcomeInvalid)
	c.AbortWithStatusJSON(http.StatusBadRequest,
		common.NewErrorResponse(common.MsgInvalidFormData, validation.FormatValidationError(err)))
}
