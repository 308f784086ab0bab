package metrics

import (
	"go.opentelemetry.io/otel/metric"

	"github.com/ahrav/employee-hub/internal/application/employee"
	"github.com/ahrav/employee-hub/internal/application/health"
	"github.com/ahrav/employee-hub/internal/application/sdk/mid"
)

const (
	namespace              = "employee_hub"
	instrumentationVersion = "v0.1.0"
)

// Registry provides access to all metric implementations.
// It centralizes the creation and management of metrics instances.
type Registry struct {
	API      mid.APIMetrics
	Employee employee.Metrics
	Health   health.HealthMetrics
}

// NewRegistry creates and initializes all metrics implementations from a
// single meter provider.
func NewRegistry(mp metric.MeterProvider) (*Registry, error) {
	apiMetrics, err := newAPIMetrics(mp)
	if err != nil {
		return nil, err
	}

	employeeMetrics, err := newEmployeeMetrics(mp)
	if err != nil {
		return nil, err
	}

	healthMetrics, err := newHealthMetrics(mp)
	if err != nil {
		return nil, err
	}

	return &Registry{
		API:      apiMetrics,
		Employee: employeeMetrics,
		Health:   healthMetrics,
	}, nil
}
