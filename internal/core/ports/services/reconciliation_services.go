package services

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// CountMaintainerSvc owns every mutation of the department member counters.
type CountMaintainerSvc interface {
	// MoveMembers points the given employees at target and adjusts counters. Idempotent.
	MoveMembers(ctx context.Context, actor domain.Actor, ids []string, targetID string) (*domain.BulkResult, error)

	// RemoveEmployees deletes employees and decrements their departments.
	RemoveEmployees(ctx context.Context, actor domain.Actor, ids []string) (*domain.BulkResult, error)

	// UpdateStatus sets the status of many employees. Counters are untouched.
	UpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.EmployeeStatus) (*domain.BulkResult, error)

	// AdmitEmployees inserts new employees together with their counter increments.
	AdmitEmployees(ctx context.Context, actor domain.Actor, employees []domain.Employee) (*domain.BulkResult, error)

	// ReplaceEmployee updates an employee and moves one unit of count when its department changes.
	ReplaceEmployee(ctx context.Context, actor domain.Actor, employee domain.Employee) error

	// AdjustCount applies delta to a department's stored counter.
	AdjustCount(ctx context.Context, actor domain.Actor, departmentID string, delta int) error
}

// ReconcilerSvc repairs drift and migrates legacy references.
type ReconcilerSvc interface {
	// RecomputeAllCounts recounts every department from a full snapshot and fixes mismatches.
	RecomputeAllCounts(ctx context.Context, actor domain.Actor) (*domain.RecountReport, error)

	// PlanMigration lists legacy name references that resolve to a department.
	PlanMigration(ctx context.Context) (*domain.MigrationPlan, error)

	// ApplyMigration writes canonical ids for plan items. With createMissing,
	// unmatched legacy names get a department first.
	ApplyMigration(ctx context.Context, actor domain.Actor, plan *domain.MigrationPlan, createMissing bool) (*domain.BulkResult, []string, error)
}

// ReconciliationSvcFacade combines the engine interfaces
type ReconciliationSvcFacade interface {
	CountMaintainerSvc
	ReconcilerSvc
}
