package repositories

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// EmployeeReader defines read operations for employees. Employee writes go
// through a WriteBatch so that membership and counter changes commit together.
type EmployeeReader interface {
	// FindEmployeeByID retrieves an employee. Returns apperrors.ErrNotFound when absent.
	FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error)

	// FindEmployeesByIDs returns the employees that exist among ids, in no particular order.
	FindEmployeesByIDs(ctx context.Context, employeeIDs []string) ([]domain.Employee, error)

	// ListEmployees returns a full snapshot of every employee ordered by name.
	ListEmployees(ctx context.Context) ([]domain.Employee, error)

	// CountDepartmentReferences counts employees that reference the department
	// by id, or by legacy name (nameKey, normalized) when they carry no usable id.
	CountDepartmentReferences(ctx context.Context, departmentID string, nameKey string) (int, error)
}

// EmployeeRepositoryFacade combines all employee-related repository interfaces
type EmployeeRepositoryFacade interface {
	EmployeeReader
}
