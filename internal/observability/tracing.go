package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prefeitura-rio/app-cadastro/internal/config"
	"github.com/prefeitura-rio/app-cadastro/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	serviceName    = "app-cadastro"
	serviceVersion = "v1"

	shutdownTimeout = 5 * time.Second
)

// ErrTracingEndpointMissing is returned when tracing is enabled without an OTLP endpoint
var ErrTracingEndpointMissing = errors.New("tracing enabled without TRACING_ENDPOINT")

var tracerProvider *sdktrace.TracerProvider

// InitTracer installs the global tracer provider exporting over OTLP gRPC.
// While tracing is disabled spans go to the global no-op provider.
// Calling it again replaces the provider installed by the previous call.
func InitTracer(ctx context.Context, cfg *config.Config) error {
	if !cfg.TracingEnabled {
		logging.Logger.Info("tracing is disabled")
		return nil
	}
	if cfg.TracingEndpoint == "" {
		return ErrTracingEndpointMissing
	}

	res, err := traceResource(ctx, cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to create trace resource: %w", err)
	}

	// The gRPC client dials lazily, so an unreachable collector only drops spans
	exporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(cfg.TracingEndpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	))
	if err != nil {
		return fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Form edits produce short bursts of small spans
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(256),
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxQueueSize(1024),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	ShutdownTracer(ctx)
	tracerProvider = provider

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logging.Logger.Info("tracer initialized",
		zap.String("endpoint", cfg.TracingEndpoint),
		zap.String("environment", cfg.Environment))
	return nil
}

// traceResource describes this library in every exported span
func traceResource(ctx context.Context, environment string) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
			semconv.DeploymentEnvironmentKey.String(environment),
		),
	)
}

// ShutdownTracer flushes pending spans and uninstalls the provider
func ShutdownTracer(ctx context.Context) {
	if tracerProvider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := tracerProvider.Shutdown(ctx); err != nil {
		logging.Logger.Warn("failed to flush traces", zap.Error(err))
	}
	tracerProvider = nil
}
