package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mesaverdecleaning/site/internal/config"
	"github.com/mesaverdecleaning/site/internal/logging"
	"github.com/mesaverdecleaning/site/internal/server"
	"github.com/mesaverdecleaning/site/internal/telemetry"
	"github.com/mesaverdecleaning/site/internal/version"

	"github.com/spf13/cobra"
)

var logger *logging.Logger

var rootCmd = &cobra.Command{
	Use:   "mesaverde",
	Short: "Mesa Verde Cleaning site API",
	Long: `Backend for the Mesa Verde Cleaning marketing site. It accepts contact form
submissions, checks them against reCAPTCHA and relays them to the business inbox.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	initConfigCommands()
	initMailCommands()
}

// loadConfig resolves configuration and initializes the global logger
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logging.InitLogger(&logging.Config{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogBackups,
		MaxAge:     cfg.LogMaxAge,
		Requests:   cfg.LogRequests,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logging.GetGlobalLogger()
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	logger.Info("Starting %s %s in %s mode", cfg.SiteName, version.Info(), cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version.Version,
		Endpoint:       cfg.OTLPEndpoint,
		Insecure:       cfg.OTLPInsecure,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error("Failed to flush traces: %v", err)
		}
	}()

	deps, err := server.BuildDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	return server.NewServer(cfg, deps).Start(ctx)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("%v", err)
		}
		os.Exit(1)
	}
}
