package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/employee-hub/internal/domain/employee"
)

// AssertEmployeeExists verifies that an employee with the given ID exists and matches expected values.
func AssertEmployeeExists(
	t *testing.T,
	ctx context.Context,
	repo employee.Repository,
	expected *employee.Employee,
) *employee.Employee {
	t.Helper()

	found, err := repo.FindByID(ctx, expected.ID)
	require.NoError(t, err, "Failed to find employee by ID")
	require.NotNil(t, found, "Employee should exist")

	assert.Equal(t, expected.Name, found.Name, "Employee name should match")
	assert.Equal(t, expected.Position, found.Position, "Employee position should match")
	assert.Equal(t, expected.Salary, found.Salary, "Employee salary should match")
	assert.Equal(t, expected.Department, found.Department, "Employee department should match")

	return found
}

// AssertEmployeeDoesNotExist verifies that an employee with the given ID doesn't exist.
func AssertEmployeeDoesNotExist(
	t *testing.T,
	ctx context.Context,
	repo employee.Repository,
	id string,
) {
	t.Helper()

	found, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound, "Should get employee not found error")
	assert.Nil(t, found, "Employee should not exist")
}
