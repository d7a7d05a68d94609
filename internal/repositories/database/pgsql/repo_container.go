package pgsql

import (
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DepartmentRepo: newPgxDepartmentRepository(dbPool),
		EmployeeRepo:   newPgxEmployeeRepository(dbPool),
		AuditLogRepo:   newPgxAuditLogRepository(dbPool),
		UserRepo:       newPgxUserRepository(dbPool),
		Batches:        newPgxBatchWriter(dbPool),
		Changes:        newPgxChangeFeed(dbPool),
	}
}
