package services

import (
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Audit first: every mutating service records through it
	container.Audit = NewAuditService(repos.AuditLogRepo, WithAuditTimeout(cfg.AuditTimeout))
	container.LiveFeed = NewLiveFeedService(repos.Changes)

	// The reconciliation engine owns every membership and counter write
	container.Reconciliation = NewReconciliationService(
		repos.DepartmentRepo,
		repos.EmployeeRepo,
		repos.Batches,
		WithBatchLimit(cfg.BatchLimit),
		WithReconciliationAudit(container.Audit),
	)

	container.Department = NewDepartmentService(
		repos.DepartmentRepo,
		repos.EmployeeRepo,
		container.Reconciliation,
		WithDepartmentAudit(container.Audit),
	)
	container.Employee = NewEmployeeService(
		repos.DepartmentRepo,
		repos.EmployeeRepo,
		container.Reconciliation,
		WithEmployeeAudit(container.Audit),
	)
	container.Transfer = NewTransferService(
		repos.DepartmentRepo,
		repos.EmployeeRepo,
		container.Reconciliation,
		WithTransferAudit(container.Audit),
	)
	container.Dashboard = NewDashboardService(repos.DepartmentRepo, repos.EmployeeRepo)

	container.User = NewUserService(repos.UserRepo)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)
	_ portssvc.DataTransferSvcFacade   = (*transferService)(nil)
	_ portssvc.DashboardSvc            = (*dashboardService)(nil)
)
