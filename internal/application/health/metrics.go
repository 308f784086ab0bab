// Package health defines the metrics recorded by the readiness probe.
package health

import "context"

// HealthMetrics records the last observed store reachability.
type HealthMetrics interface {
	SetSystemHealth(ctx context.Context, status bool)
}
