package services

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/dto"
)

// EmployeeReaderSvc defines read operations for employee data
type EmployeeReaderSvc interface {
	GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error)

	// ListEmployees returns employees matching filter. Department filtering is resolution aware.
	ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error)

	// ListManagers returns the employees that may be referenced as a manager.
	ListManagers(ctx context.Context) ([]domain.Employee, error)

	// DepartmentIndex returns a fresh resolver over the current departments.
	DepartmentIndex(ctx context.Context) (*domain.DepartmentIndex, error)
}

// EmployeeWriterSvc defines write operations for employee data
type EmployeeWriterSvc interface {
	CreateEmployee(ctx context.Context, actor domain.Actor, req dto.EmployeeInput) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, actor domain.Actor, employeeID string, req dto.EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, actor domain.Actor, employeeID string) error
}

// EmployeeBulkSvc defines multi-record operations, all routed through the reconciliation engine
type EmployeeBulkSvc interface {
	BulkUpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.EmployeeStatus) (*domain.BulkResult, error)
	BulkMove(ctx context.Context, actor domain.Actor, ids []string, targetDepartmentID string) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, actor domain.Actor, ids []string) (*domain.BulkResult, error)
}

// EmployeeSvcFacade combines all employee-related service interfaces
type EmployeeSvcFacade interface {
	EmployeeReaderSvc
	EmployeeWriterSvc
	EmployeeBulkSvc
}
