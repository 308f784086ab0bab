package employee

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common errors
var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrMissingRequiredFields = errors.New("missing required fields")
)

// Employee represents a single employee record.
type Employee struct {
	ID         string
	Name       string
	Position   string
	Salary     float64
	Department string
}

// Fields holds the business fields of an employee as submitted by a client.
// A nil pointer marks a field that was absent or explicitly null.
type Fields struct {
	Name       *string  `json:"name" validate:"required,truthy"`
	Position   *string  `json:"position" validate:"required,truthy"`
	Salary     *float64 `json:"salary" validate:"required,truthy"`
	Department *string  `json:"department" validate:"required,truthy"`
}

// NewEmployee builds an employee from fields that already passed validation.
// The ID stays empty; the store assigns it on insert.
func NewEmployee(f Fields) *Employee {
	e := &Employee{}
	e.Replace(f)
	return e
}

// Replace overwrites every business field with the given values, keeping the ID.
func (e *Employee) Replace(f Fields) {
	e.Name = deref(f.Name)
	e.Position = deref(f.Position)
	e.Salary = deref(f.Salary)
	e.Department = deref(f.Department)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// ValidationError reports which fields failed the required-field policy.
// It matches ErrMissingRequiredFields with errors.Is.
type ValidationError struct {
	// Fields maps a field name to a human readable reason.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", ErrMissingRequiredFields, strings.Join(names, ", "))
}

// Is reports whether target is ErrMissingRequiredFields.
func (e *ValidationError) Is(target error) bool { return target == ErrMissingRequiredFields }

// StoreError wraps a failure reported by the backing store. Its message is
// the store's own message, unchanged.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
