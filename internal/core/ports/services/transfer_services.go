package services

import (
	"context"
	"io"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// ImportOptions controls a CSV import.
type ImportOptions struct {
	// CreateMissing creates departments for unresolved names instead of rejecting the row.
	CreateMissing bool
	// DryRun validates every row without writing.
	DryRun bool
}

// ImportSvc loads employees from CSV.
type ImportSvc interface {
	ImportEmployees(ctx context.Context, actor domain.Actor, r io.Reader, opts ImportOptions) (*domain.ImportReport, error)
}

// ExportSvc writes employee and department listings as files.
type ExportSvc interface {
	ExportCSV(ctx context.Context, w io.Writer, filter domain.EmployeeFilter) error
	ExportXLSX(ctx context.Context, w io.Writer, filter domain.EmployeeFilter) error
	ExportDepartmentsCSV(ctx context.Context, w io.Writer) error
}

// DataTransferSvcFacade combines import and export
type DataTransferSvcFacade interface {
	ImportSvc
	ExportSvc
}

// DashboardSvc summarizes the workforce.
type DashboardSvc interface {
	GetDashboard(ctx context.Context) (*domain.DashboardStats, error)
}
