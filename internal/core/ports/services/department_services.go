package services

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/dto"
)

// DepartmentReaderSvc defines read operations for department data
type DepartmentReaderSvc interface {
	// GetDepartment retrieves a department by ID.
	GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error)

	// ListDepartments returns departments whose normalized name contains query, sorted by name.
	ListDepartments(ctx context.Context, query string) ([]domain.Department, error)
}

// DepartmentWriterSvc defines write operations for department data
type DepartmentWriterSvc interface {
	// CreateDepartment persists a new department with a zero member count.
	CreateDepartment(ctx context.Context, actor domain.Actor, req dto.CreateDepartmentRequest) (*domain.Department, error)

	// UpdateDepartment renames a department and/or changes its manager. The member count is never touched.
	UpdateDepartment(ctx context.Context, actor domain.Actor, departmentID string, req dto.UpdateDepartmentRequest) (*domain.Department, error)

	// DeleteDepartment removes a department nobody references.
	DeleteDepartment(ctx context.Context, actor domain.Actor, departmentID string) error

	// MergeDepartments moves every member of source into target and deletes source.
	MergeDepartments(ctx context.Context, actor domain.Actor, sourceID, targetID string) (*domain.BulkResult, error)
}

// DepartmentSvcFacade combines all department-related service interfaces
type DepartmentSvcFacade interface {
	DepartmentReaderSvc
	DepartmentWriterSvc
}
