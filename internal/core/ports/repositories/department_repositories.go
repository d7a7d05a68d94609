package repositories

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// DepartmentReader defines read operations for departments
type DepartmentReader interface {
	// FindDepartmentByID retrieves a department by ID. Returns apperrors.ErrNotFound when absent.
	FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListDepartments returns every department ordered by name.
	ListDepartments(ctx context.Context) ([]domain.Department, error)
}

// DepartmentWriter defines write operations for departments.
// None of these touch member_count except AdjustMemberCount.
type DepartmentWriter interface {
	// SaveDepartment inserts a new department. A normalized-name collision
	// returns apperrors.ErrDuplicateName.
	SaveDepartment(ctx context.Context, department domain.Department) error

	// UpdateDepartment updates name and manager.
	UpdateDepartment(ctx context.Context, department domain.Department) error

	// DeleteDepartment removes a department.
	DeleteDepartment(ctx context.Context, departmentID string) error

	// AdjustMemberCount atomically adds delta (possibly negative) to member_count.
	AdjustMemberCount(ctx context.Context, departmentID string, delta int) error
}

// DepartmentRepositoryFacade combines all department-related repository interfaces
type DepartmentRepositoryFacade interface {
	DepartmentReader
	DepartmentWriter
}
