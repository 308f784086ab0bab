package employee

import (
	"context"
	"errors"
	"time"

	"github.com/ahrav/employee-hub/internal/domain/employee"
)

// Operation names used for spans, logs and metric attributes.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Outcome classifies how an operation ended.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeNotFound Outcome = "not_found"
	OutcomeError    Outcome = "error"
)

// OutcomeOf maps an operation error to its Outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, employee.ErrMissingRequiredFields):
		return OutcomeInvalid
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// Metrics defines metrics for employee record operations.
type Metrics interface {
	// IncOperation counts a finished operation by name and outcome.
	IncOperation(ctx context.Context, operation string, outcome Outcome)

	// ObserveStoreLatency records how long the single store call of an
	// operation took.
	ObserveStoreLatency(ctx context.Context, operation string, duration time.Duration)
}
