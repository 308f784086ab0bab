package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/employee-hub/internal/application/health"
)

var _ health.HealthMetrics = (*healthMetrics)(nil)

// healthMetrics reports store reachability as a 0/1 gauge.
type healthMetrics struct {
	systemHealth metric.Int64Gauge
}

func newHealthMetrics(mp metric.MeterProvider) (*healthMetrics, error) {
	meter := mp.Meter(namespace, metric.WithInstrumentationVersion(instrumentationVersion))

	m := new(healthMetrics)
	var err error

	if m.systemHealth, err = meter.Int64Gauge(
		"system_health",
		metric.WithDescription("1 when the employee store is reachable, 0 otherwise"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *healthMetrics) SetSystemHealth(ctx context.Context, status bool) {
	var v int64
	if status {
		v = 1
	}
	m.systemHealth.Record(ctx, v)
}
