// Package postgres stores employee records as JSONB documents in PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/employee-hub/internal/domain/employee"
	"github.com/ahrav/employee-hub/internal/infra/storage"
)

var (
	_ employee.Repository = (*employeeStore)(nil)
	_ employee.Pinger     = (*employeeStore)(nil)
)

const (
	listEmployees = `SELECT id::text, document FROM employees ORDER BY seq`

	findEmployeeByID = `SELECT id::text, document FROM employees WHERE id = $1`

	insertEmployee = `INSERT INTO employees (document) VALUES ($1) RETURNING id::text, document`

	replaceEmployee = `UPDATE employees SET document = $2, updated_at = NOW()
WHERE id = $1
RETURNING id::text, document`

	deleteEmployee = `DELETE FROM employees WHERE id = $1`
)

// document is the JSON body stored for each employee. The id lives in its
// own column and is never part of the document.
type document struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Salary     float64 `json:"salary"`
	Department string  `json:"department"`
}

// employeeStore implements employee.Repository on a pgx connection pool.
type employeeStore struct {
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

// NewEmployeeStore creates an employee.Repository backed by PostgreSQL.
// The pool is owned by the caller and must outlive the store.
func NewEmployeeStore(pool *pgxpool.Pool, tracer trace.Tracer) *employeeStore {
	return &employeeStore{pool: pool, tracer: tracer}
}

func spanAttrs(extra ...attribute.KeyValue) []attribute.KeyValue {
	return append([]attribute.KeyValue{
		attribute.String("db.system", "postgresql"),
		attribute.String("db.collection.name", "employees"),
	}, extra...)
}

// List returns all employees ordered by insertion.
func (s *employeeStore) List(ctx context.Context) ([]*employee.Employee, error) {
	return storage.QueryAndTrace(ctx, s.tracer, "employeeStore.List", spanAttrs(),
		func(ctx context.Context) ([]*employee.Employee, error) {
			rows, err := s.pool.Query(ctx, listEmployees)
			if err != nil {
				return nil, err
			}

			employees, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*employee.Employee, error) {
				return scanEmployee(row)
			})
			if err != nil {
				return nil, err
			}
			return employees, nil
		})
}

// FindByID retrieves an employee by id.
// Returns ErrEmployeeNotFound if the employee doesn't exist or the id is not a UUID.
func (s *employeeStore) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return storage.QueryAndTrace(ctx, s.tracer, "employeeStore.FindByID",
		spanAttrs(attribute.String("employee_id", id)),
		func(ctx context.Context) (*employee.Employee, error) {
			key, ok := parseID(id)
			if !ok {
				return nil, employee.ErrEmployeeNotFound
			}

			e, err := scanEmployee(s.pool.QueryRow(ctx, findEmployeeByID, key))
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, employee.ErrEmployeeNotFound
				}
				return nil, err
			}
			return e, nil
		})
}

// Create inserts a new document and returns it with the generated id.
func (s *employeeStore) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	return storage.QueryAndTrace(ctx, s.tracer, "employeeStore.Create", spanAttrs(),
		func(ctx context.Context) (*employee.Employee, error) {
			doc, err := encodeDocument(e)
			if err != nil {
				return nil, err
			}
			return scanEmployee(s.pool.QueryRow(ctx, insertEmployee, doc))
		})
}

// Update replaces the whole document of an existing employee.
// Returns ErrEmployeeNotFound if the employee doesn't exist or the id is not a UUID.
func (s *employeeStore) Update(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	return storage.QueryAndTrace(ctx, s.tracer, "employeeStore.Update",
		spanAttrs(attribute.String("employee_id", e.ID)),
		func(ctx context.Context) (*employee.Employee, error) {
			key, ok := parseID(e.ID)
			if !ok {
				return nil, employee.ErrEmployeeNotFound
			}

			doc, err := encodeDocument(e)
			if err != nil {
				return nil, err
			}

			updated, err := scanEmployee(s.pool.QueryRow(ctx, replaceEmployee, key, doc))
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return nil, employee.ErrEmployeeNotFound
				}
				return nil, err
			}
			return updated, nil
		})
}

// Delete permanently removes an employee document.
// Returns ErrEmployeeNotFound if nothing was deleted.
func (s *employeeStore) Delete(ctx context.Context, id string) error {
	return storage.ExecuteAndTrace(ctx, s.tracer, "employeeStore.Delete",
		spanAttrs(attribute.String("employee_id", id)),
		func(ctx context.Context) error {
			key, ok := parseID(id)
			if !ok {
				return employee.ErrEmployeeNotFound
			}

			tag, err := s.pool.Exec(ctx, deleteEmployee, key)
			if err != nil {
				return err
			}
			if tag.RowsAffected() == 0 {
				return employee.ErrEmployeeNotFound
			}
			return nil
		})
}

// Ping checks that the database is reachable.
func (s *employeeStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// parseID converts an employee id into a UUID parameter. Ids that are not
// UUIDs can never have been issued by this store.
func parseID(id string) (pgtype.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}, true
}

func encodeDocument(e *employee.Employee) ([]byte, error) {
	doc, err := json.Marshal(document{
		Name:       e.Name,
		Position:   e.Position,
		Salary:     e.Salary,
		Department: e.Department,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding employee document: %w", err)
	}
	return doc, nil
}

// scanEmployee reads an (id, document) row into a domain employee.
func scanEmployee(row pgx.Row) (*employee.Employee, error) {
	var (
		id  string
		raw []byte
	)
	if err := row.Scan(&id, &raw); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding employee document %s: %w", id, err)
	}

	return &employee.Employee{
		ID:         id,
		Name:       doc.Name,
		Position:   doc.Position,
		Salary:     doc.Salary,
		Department: doc.Department,
	}, nil
}
