package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mesaverdecleaning/site/internal/api/handlers"
	"github.com/mesaverdecleaning/site/internal/api/middleware"
	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/logging"
	"github.com/mesaverdecleaning/site/internal/server/routes"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	cfg    *config.Config
	logger *logging.Logger
}

// NewServer creates a new server instance with every route registered
func NewServer(cfg *config.Config, deps *Dependencies) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	logger := logging.GetGlobalLogger()

	// Create a new engine without default middleware
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("Ignoring invalid TRUSTED_PROXIES: %v", err)
		_ = router.SetTrustedProxies(nil)
	}

	h := &routes.Handlers{
		Contact: handlers.NewContactHandler(deps.Verifier, deps.Relay),
		Health:  handlers.NewHealthHandler(deps.Relay.Ready),
	}
	m := &routes.Middleware{
		Validation:     middleware.NewValidationMiddleware(cfg.Services),
		ContactLimiter: deps.Limiter,
	}

	routes.SetupGlobalMiddleware(router, cfg, logger)
	routes.Setup(router, cfg, h, m)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler returns the HTTP handler serving all routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting API server on port %s", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("API server stopped")
	return nil
}
