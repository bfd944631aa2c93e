package routes

import (
	"net/http"

	"github.com/mesaverdecleaning/site/internal/api/dto/common"
	"github.com/mesaverdecleaning/site/internal/api/middleware"
	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/logging"
	basemiddleware "github.com/mesaverdecleaning/site/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, cfg *config.Config, h *Handlers, m *Middleware) {
	logger := logging.GetGlobalLogger()

	SetupHealthRoutes(router, h.Health)
	if cfg.MetricsEnabled {
		SetupMetricsRoutes(router)
	}

	api := router.Group("/api")
	api.Use(middleware.GlobalRateLimit(cfg.RateLimit.GlobalRPS, cfg.RateLimit.GlobalBurst))
	SetupContactRoutes(api, h.Contact, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Not found", nil))
	})

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, cfg *config.Config, logger *logging.Logger) {
	router.Use(basemiddleware.Recovery(logger))
	router.Use(basemiddleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(basemiddleware.Metrics())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodySize))
}
