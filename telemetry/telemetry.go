// Package telemetry builds the OpenTelemetry tracer provider the
// server wires into its HTTP handler via otelhttp, grounded on
// hanpama-protograph's internal/otel.Setup (same batched-exporter +
// resource-attribute shape), adapted to the OTLP/HTTP exporter the
// teacher's go.mod already carries instead of that example's gRPC one.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Shutdown flushes and stops the tracer provider installed by
// InitTracer.
type Shutdown func(context.Context) error

// InitTracer configures the global tracer provider for serviceName,
// exporting spans over OTLP/HTTP to the default collector endpoint
// (OTEL_EXPORTER_OTLP_ENDPOINT, or localhost:4318 if unset --
// otlptracehttp.New's own default). Callers disable tracing instead
// by never calling InitTracer; GatewayOption.Opentelemetry.TracingSetting.Enable
// gates the call site in server/gateway.go.
func InitTracer(ctx context.Context, serviceName, serviceVersion string) (Shutdown, error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP/HTTP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("building telemetry resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
