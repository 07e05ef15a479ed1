package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const tracerName = "github.com/aaravmahajanofficial/lankabuy-storefront"

type ShutdownFunc func(context.Context) error

// InitTracer installs the global tracer provider. Without an exporter
// endpoint tracing stays disabled and the returned shutdown is a no-op.
func InitTracer(ctx context.Context, cfg config.Otel) (ShutdownFunc, error) {
	if cfg.ExporterEndpoint == "" {
		slog.Debug("Trace export disabled, no exporter endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.ExporterEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	provider := NewTracerProvider(cfg, sdktrace.WithBatcher(exporter))

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	slog.Info("Tracing enabled", slog.String("endpoint", cfg.ExporterEndpoint), slog.Float64("sampler_ratio", cfg.SamplerRatio))

	return provider.Shutdown, nil
}

// NewTracerProvider builds a provider tagged with the service name and
// sampling at cfg.SamplerRatio.
func NewTracerProvider(cfg config.Otel, opts ...sdktrace.TracerProviderOption) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerRatio))),
	}, opts...)

	return sdktrace.NewTracerProvider(opts...)
}

// StartCommand opens the root span for one console command. Backend calls
// made with the returned context become its children.
func StartCommand(ctx context.Context, command, correlationID string) (context.Context, func()) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "command "+command)
	span.SetAttributes(
		attribute.String("console.command", command),
		attribute.String("correlation_id", correlationID),
	)

	return ctx, func() { span.End() }
}
