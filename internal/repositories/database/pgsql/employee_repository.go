package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxEmployeeRepository struct {
	BaseRepository
}

// newPgxEmployeeRepository creates a new repository for employee reads.
// Writes go through pgxBatch.
func newPgxEmployeeRepository(pool PgxPool) portsrepo.EmployeeRepositoryFacade {
	return &PgxEmployeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EmployeeRepositoryFacade = (*PgxEmployeeRepository)(nil)

const employeeSelectQuery = `
SELECT
	e.employee_id, e.name, e.email, e.tax_id, e.phone, e.gender,
	e.postal_code, e.street, e.street_number, e.city, e.state,
	e.job_title, e.hire_date, e.level, e.manager_id, e.status, e.base_salary,
	e.department_id, e.department_name,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM employees e
`

func (r *PgxEmployeeRepository) getEmployees(ctx context.Context, filterQuery string, args ...any) ([]domain.Employee, error) {
	rows, err := r.Pool.Query(ctx, employeeSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employees", err)
	}
	defer rows.Close()
	employees, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Employee])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Employee{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect employee rows", err)
	}
	return employees, nil
}

func (r *PgxEmployeeRepository) FindEmployeeByID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	employees, err := r.getEmployees(ctx, `WHERE e.employee_id = $1`, employeeID)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, apperrors.NewNotFoundError("employee " + employeeID + " not found")
	}
	return &employees[0], nil
}

func (r *PgxEmployeeRepository) FindEmployeesByIDs(ctx context.Context, employeeIDs []string) ([]domain.Employee, error) {
	if len(employeeIDs) == 0 {
		return []domain.Employee{}, nil
	}
	return r.getEmployees(ctx, `WHERE e.employee_id = ANY($1)`, employeeIDs)
}

func (r *PgxEmployeeRepository) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return r.getEmployees(ctx, `ORDER BY e.name, e.employee_id`)
}

// A legacy reference counts only when the employee has no id or the id
// points at a department that no longer exists.
const countDepartmentReferencesQuery = `
SELECT COUNT(*)
FROM employees e
WHERE e.department_id = $1
   OR ($2 <> '' AND e.department_key = $2 AND (
        e.department_id IS NULL OR e.department_id = ''
        OR NOT EXISTS (SELECT 1 FROM departments d WHERE d.department_id = e.department_id)
   ));
`

func (r *PgxEmployeeRepository) CountDepartmentReferences(ctx context.Context, departmentID string, nameKey string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, countDepartmentReferencesQuery, departmentID, nameKey).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count references to department "+departmentID, err)
	}
	return count, nil
}
