// Package otel wires the OpenTelemetry SDK into the improv services.
//
// Tracing stays off unless IMPROV_SHOW_OTEL_ENDPOINT names an OTLP/HTTP
// collector. Setting IMPROV_SHOW_OTEL_ENABLED to "false" forces it off
// even when an endpoint is configured.
package otel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointEnv = "IMPROV_SHOW_OTEL_ENDPOINT"
	enabledEnv  = "IMPROV_SHOW_OTEL_ENABLED"
)

// noopShutdown keeps the Setup contract uniform when tracing is off.
func noopShutdown(context.Context) error { return nil }

// Setup registers a global tracer provider that exports spans to the
// configured collector. The returned function flushes buffered spans;
// callers defer it around their run loop. When tracing is off, Setup
// registers nothing and the returned function is a no-op.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	endpoint, ok := collectorEndpoint()
	if !ok {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noopShutdown, fmt.Errorf("create trace exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return noopShutdown, fmt.Errorf("describe service resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return provider.Shutdown, nil
}

// collectorEndpoint reports the collector URL and whether tracing
// should run at all.
func collectorEndpoint() (string, bool) {
	if strings.EqualFold(os.Getenv(enabledEnv), "false") {
		return "", false
	}
	endpoint := os.Getenv(endpointEnv)
	return endpoint, endpoint != ""
}
