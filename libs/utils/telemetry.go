package utils

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.11.0"
)

// ServiceName is what every head relay reports telemetry as.
const ServiceName = "head-relay"

// DefaultMetricsInterval is how often metrics are exported unless set otherwise.
const DefaultMetricsInterval = 10 * time.Second

// Telemetry identifies the relay instance metrics and traces are exported for.
type Telemetry struct {
	// ChainID of the relayed dependent chain. Relays of one chain share a namespace.
	ChainID string
	// InstanceID tells relays of one chain apart, usually the peer ID.
	InstanceID string
}

// Resource describes the relay instance to telemetry backends.
func (t Telemetry) Resource() *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNamespaceKey.String(t.ChainID),
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceInstanceIDKey.String(t.InstanceID),
	)
}

// NewMeterProvider creates a provider exporting metrics over OTLP HTTP every interval.
// Zero interval falls back to DefaultMetricsInterval.
func (t Telemetry) NewMeterProvider(
	ctx context.Context,
	interval time.Duration,
	opts ...otlpmetrichttp.Option,
) (*sdkmetric.MeterProvider, error) {
	opts = append([]otlpmetrichttp.Option{
		otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression),
	}, opts...)
	exp, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating OTLP metric exporter: %w", err)
	}

	if interval <= 0 {
		interval = DefaultMetricsInterval
	}
	reader := sdkmetric.NewPeriodicReader(exp,
		sdkmetric.WithTimeout(interval),
		sdkmetric.WithInterval(interval),
	)
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(t.Resource()),
	), nil
}

// NewTracerProvider creates a provider exporting batches of spans over OTLP HTTP.
func (t Telemetry) NewTracerProvider(
	ctx context.Context,
	opts ...otlptracehttp.Option,
) (*sdktrace.TracerProvider, error) {
	opts = append([]otlptracehttp.Option{
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	}, opts...)
	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating OTLP trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(t.Resource()),
	), nil
}
