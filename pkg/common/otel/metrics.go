package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// GetMeterProvider returns the global meter provider. It is a no-op provider
// until InitTelemetry installs an exporting one.
func GetMeterProvider() metric.MeterProvider { return otel.GetMeterProvider() }

// GetTracerProvider returns the global tracer provider, with the same no-op
// default as GetMeterProvider.
func GetTracerProvider() trace.TracerProvider { return otel.GetTracerProvider() }
