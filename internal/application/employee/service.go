package employee

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/employee-hub/internal/domain/employee"
	"github.com/ahrav/employee-hub/pkg/common/logger"
)

// Service provides employee record operations. Every operation issues at most
// one call against the repository; nothing is retried or cached.
type Service struct {
	repo      employee.Repository
	validator *employee.Validator
	metrics   Metrics

	logger *logger.Logger
	tracer trace.Tracer
}

// NewService creates a new employee service backed by repo. Submitted fields
// are checked with validator before any store call is made.
func NewService(
	repo employee.Repository,
	validator *employee.Validator,
	metrics Metrics,
	logger *logger.Logger,
	tracer trace.Tracer,
) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		metrics:   metrics,
		logger:    logger.With("component", "employee_service"),
		tracer:    tracer,
	}
}

// List returns all employee records in store order.
func (s *Service) List(ctx context.Context) ([]*employee.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "employee.List")
	defer span.End()

	var employees []*employee.Employee
	err := s.callStore(ctx, OpList, func(ctx context.Context) error {
		var err error
		employees, err = s.repo.List(ctx)
		return err
	})
	s.finish(ctx, span, OpList, err)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("employee_count", len(employees)))
	return employees, nil
}

// Get returns the employee with the given id.
func (s *Service) Get(ctx context.Context, id string) (*employee.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "employee.Get", trace.WithAttributes(
		attribute.String("employee_id", id),
	))
	defer span.End()

	var found *employee.Employee
	err := s.callStore(ctx, OpGet, func(ctx context.Context) error {
		var err error
		found, err = s.repo.FindByID(ctx, id)
		return err
	})
	s.finish(ctx, span, OpGet, err, "employee_id", id)
	if err != nil {
		return nil, err
	}

	return found, nil
}

// Create validates fields and persists a new employee. The returned record
// carries the identifier assigned by the store.
func (s *Service) Create(ctx context.Context, fields employee.Fields) (*employee.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "employee.Create")
	defer span.End()

	if err := s.validator.Validate(fields); err != nil {
		s.finish(ctx, span, OpCreate, err)
		return nil, err
	}

	var created *employee.Employee
	err := s.callStore(ctx, OpCreate, func(ctx context.Context) error {
		var err error
		created, err = s.repo.Create(ctx, employee.NewEmployee(fields))
		return err
	})
	if err != nil {
		s.finish(ctx, span, OpCreate, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("employee_id", created.ID))
	s.finish(ctx, span, OpCreate, nil, "employee_id", created.ID)
	return created, nil
}

// Update replaces every business field of the employee with the given id.
// Fields are validated before the record is looked up, so a request with
// missing fields fails validation even when the id does not exist.
func (s *Service) Update(ctx context.Context, id string, fields employee.Fields) (*employee.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "employee.Update", trace.WithAttributes(
		attribute.String("employee_id", id),
	))
	defer span.End()

	if err := s.validator.Validate(fields); err != nil {
		s.finish(ctx, span, OpUpdate, err, "employee_id", id)
		return nil, err
	}

	replacement := employee.NewEmployee(fields)
	replacement.ID = id

	var updated *employee.Employee
	err := s.callStore(ctx, OpUpdate, func(ctx context.Context) error {
		var err error
		updated, err = s.repo.Update(ctx, replacement)
		return err
	})
	s.finish(ctx, span, OpUpdate, err, "employee_id", id)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete permanently removes the employee with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "employee.Delete", trace.WithAttributes(
		attribute.String("employee_id", id),
	))
	defer span.End()

	err := s.callStore(ctx, OpDelete, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	s.finish(ctx, span, OpDelete, err, "employee_id", id)
	return err
}

// callStore times the single store call of an operation. Failures other than
// a missing record are wrapped in *employee.StoreError.
func (s *Service) callStore(ctx context.Context, op string, call func(ctx context.Context) error) error {
	start := time.Now()
	err := call(ctx)
	s.metrics.ObserveStoreLatency(ctx, op, time.Since(start))

	if err == nil || errors.Is(err, employee.ErrEmployeeNotFound) {
		return err
	}

	var storeErr *employee.StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &employee.StoreError{Op: op, Err: err}
}

// finish records the outcome of an operation on the span, in metrics and in
// the log.
func (s *Service) finish(ctx context.Context, span trace.Span, op string, err error, keyvals ...any) {
	outcome := OutcomeOf(err)
	s.metrics.IncOperation(ctx, op, outcome)
	span.SetAttributes(attribute.String("outcome", string(outcome)))

	args := append([]any{"operation", op, "outcome", string(outcome)}, keyvals...)

	switch outcome {
	case OutcomeSuccess:
		span.SetStatus(codes.Ok, "")
		s.logger.Info(ctx, "employee operation completed", args...)
	case OutcomeInvalid:
		var verr *employee.ValidationError
		if errors.As(err, &verr) {
			args = append(args, "fields", verr.Fields)
		}
		span.AddEvent("validation failed")
		s.logger.Info(ctx, "employee operation rejected", args...)
	case OutcomeNotFound:
		span.AddEvent("employee not found")
		s.logger.Info(ctx, "employee not found", args...)
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "store operation failed")
		s.logger.Error(ctx, "employee operation failed", append(args, "error", err)...)
	}
}
