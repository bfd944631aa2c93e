package routes

import (
	"github.com/mesaverdecleaning/site/internal/api/handlers"
	"github.com/mesaverdecleaning/site/internal/api/middleware"
	"github.com/mesaverdecleaning/site/internal/utils"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures the public contact form endpoint. The guard
// runs first so an unconfigured relay never consumes rate limit quota.
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	router.POST("/contact",
		middleware.ConfigGuard(contact.Ready),
		middleware.ContactRateLimit(m.ContactLimiter),
		m.Validation.ValidateContactRequest(),
		contact.Submit,
	)

	// Preflight is answered by the CORS middleware; this keeps the route
	// explicit when CORS is bypassed
	router.OPTIONS("/contact", utils.HandleNoContent)
}
