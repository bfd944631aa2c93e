// Package telemetry sets up OpenTelemetry tracing. Spans are exported over
// OTLP gRPC when an endpoint is configured; otherwise the global no-op
// provider stays in place.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/mesaverdecleaning/site/internal/logging"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Config configures the tracer provider
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the collector address, e.g. "otel-collector:4317"
	Endpoint string
	// Insecure sends spans in plaintext. Otherwise the collector must
	// present a certificate trusted by the system pool.
	Insecure bool
}

// ShutdownFunc flushes pending spans
type ShutdownFunc func(ctx context.Context) error

// Init installs a global tracer provider. With an empty endpoint it does
// nothing and returns a no-op shutdown.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	logger := logging.GetGlobalLogger()

	if cfg.Endpoint == "" {
		logger.Debug("Tracing disabled: no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}

	exporter, err := otlptracegrpc.New(dialCtx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracing enabled, exporting to %s", cfg.Endpoint)

	return tp.Shutdown, nil
}
