package routes

import (
	"github.com/mesaverdecleaning/site/internal/api/handlers"
	"github.com/mesaverdecleaning/site/internal/metrics"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/health", health.Check)
}

// SetupMetricsRoutes exposes the Prometheus registry
func SetupMetricsRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}
