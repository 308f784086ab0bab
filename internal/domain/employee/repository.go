package employee

import "context"

// Repository defines the interface for employee data access operations.
// Implementations are document stores: each call maps to exactly one
// store operation.
type Repository interface {
	// List returns every stored employee in insertion order.
	List(ctx context.Context) ([]*Employee, error)

	// FindByID retrieves an employee by its identifier.
	// Returns ErrEmployeeNotFound if no record exists, including when the
	// identifier is not in a format the store could have issued.
	FindByID(ctx context.Context, id string) (*Employee, error)

	// Create persists a new employee and returns the stored record with the
	// identifier assigned by the store.
	Create(ctx context.Context, e *Employee) (*Employee, error)

	// Update replaces all business fields of the employee identified by e.ID
	// and returns the stored record. Returns ErrEmployeeNotFound if absent.
	Update(ctx context.Context, e *Employee) (*Employee, error)

	// Delete permanently removes the employee. Returns ErrEmployeeNotFound
	// if absent.
	Delete(ctx context.Context, id string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
