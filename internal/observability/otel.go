package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.uber.org/zap"

	"api_ventas/internal/config"
)

// InitTracing installs the global tracer provider and propagator. With no
// exporter configured it installs nothing and the returned shutdown is a no-op.
func InitTracing(ctx context.Context, cfg config.TracingConfig, logger *zap.Logger) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var (
		exporter sdktrace.SpanExporter
		err      error
	)
	switch cfg.Exporter {
	case "":
		return noop, nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "otlp":
		// Endpoint and headers come from the standard OTEL_EXPORTER_OTLP_* variables.
		exporter, err = otlptracehttp.New(ctx)
	default:
		return noop, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}
	if err != nil {
		return noop, fmt.Errorf("creating %s exporter: %w", cfg.Exporter, err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(cfg.ServiceName),
	))
	if err != nil {
		logger.Warn("otel resource init failed (continuing)", zap.Error(err))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("otel tracing initialized",
		zap.String("service", cfg.ServiceName),
		zap.String("exporter", cfg.Exporter),
	)
	return tp.Shutdown, nil
}
