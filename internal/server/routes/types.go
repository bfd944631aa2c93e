package routes

import (
	"github.com/mesaverdecleaning/site/internal/api/handlers"
	"github.com/mesaverdecleaning/site/internal/api/middleware"
	"github.com/mesaverdecleaning/site/internal/ratelimit"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}

// Middleware contains the route-scoped middleware
type Middleware struct {
	Validation     *middleware.ValidationMiddleware
	ContactLimiter ratelimit.Limiter
}
