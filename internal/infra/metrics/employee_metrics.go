package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/employee-hub/internal/application/employee"
)

var _ employee.Metrics = (*employeeMetrics)(nil)

// employeeMetrics implements employee.Metrics.
type employeeMetrics struct {
	operations   metric.Int64Counter
	storeLatency metric.Float64Histogram
}

func newEmployeeMetrics(mp metric.MeterProvider) (*employeeMetrics, error) {
	meter := mp.Meter(namespace, metric.WithInstrumentationVersion(instrumentationVersion))

	m := new(employeeMetrics)
	var err error

	if m.operations, err = meter.Int64Counter(
		"employee_operations_total",
		metric.WithDescription("Total number of employee operations by outcome"),
	); err != nil {
		return nil, err
	}

	if m.storeLatency, err = meter.Float64Histogram(
		"employee_store_latency_seconds",
		metric.WithDescription("Latency of employee store calls in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// IncOperation counts one finished operation.
func (m *employeeMetrics) IncOperation(ctx context.Context, op string, outcome employee.Outcome) {
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", string(outcome)),
	))
}

// ObserveStoreLatency records the duration of a single store call.
func (m *employeeMetrics) ObserveStoreLatency(ctx context.Context, op string, d time.Duration) {
	m.storeLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("operation", op),
	))
}
