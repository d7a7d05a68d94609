package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/jackc/pgx/v5"
)

const constraintDepartmentNameKey = "uq_departments_name_key"

type PgxDepartmentRepository struct {
	BaseRepository
}

// newPgxDepartmentRepository creates a new repository for department data.
func newPgxDepartmentRepository(pool PgxPool) portsrepo.DepartmentRepositoryFacade {
	return &PgxDepartmentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DepartmentRepositoryFacade = (*PgxDepartmentRepository)(nil)

const departmentSelectQuery = `
SELECT
	d.department_id, d.name, d.member_count, d.manager_id,
	d.created_at, d.created_by, d.last_updated_at, d.last_updated_by
FROM departments d
`

func (r *PgxDepartmentRepository) getDepartments(ctx context.Context, filterQuery string, args ...any) ([]domain.Department, error) {
	rows, err := r.Pool.Query(ctx, departmentSelectQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query departments", err)
	}
	defer rows.Close()
	deps, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Department])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Department{}, nil
		}
		return nil, apperrors.NewAppError(500, "failed to collect department rows", err)
	}
	return deps, nil
}

func (r *PgxDepartmentRepository) FindDepartmentByID(ctx context.Context, departmentID string) (*domain.Department, error) {
	deps, err := r.getDepartments(ctx, `WHERE d.department_id = $1`, departmentID)
	if err != nil {
		return nil, err
	}
	if len(deps) == 0 {
		return nil, apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	return &deps[0], nil
}

func (r *PgxDepartmentRepository) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	return r.getDepartments(ctx, `ORDER BY d.name, d.department_id`)
}

func departmentWriteError(err error, department domain.Department) error {
	code, constraint := pgErrorCode(err)
	if code == pgUniqueViolation {
		if constraint == constraintDepartmentNameKey {
			return apperrors.ErrDuplicateName
		}
		return apperrors.NewConflictError("department ID " + department.DepartmentID + " already exists")
	}
	return apperrors.NewAppError(500, "failed to save department "+department.DepartmentID, err)
}

func (r *PgxDepartmentRepository) SaveDepartment(ctx context.Context, department domain.Department) error {
	query := `
		INSERT INTO departments (
			department_id, name, name_key, member_count, manager_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		department.DepartmentID,
		department.Name,
		textnorm.Normalize(department.Name),
		department.MemberCount,
		department.ManagerID,
		department.CreatedAt,
		department.CreatedBy,
		department.LastUpdatedAt,
		department.LastUpdatedBy,
	)
	if err != nil {
		return departmentWriteError(err, department)
	}
	return nil
}

func (r *PgxDepartmentRepository) UpdateDepartment(ctx context.Context, department domain.Department) error {
	query := `
		UPDATE departments
		SET name = $1, name_key = $2, manager_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE department_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query,
		department.Name,
		textnorm.Normalize(department.Name),
		department.ManagerID,
		department.LastUpdatedAt,
		department.LastUpdatedBy,
		department.DepartmentID,
	)
	if err != nil {
		return departmentWriteError(err, department)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("department " + department.DepartmentID + " not found")
	}
	return nil
}

func (r *PgxDepartmentRepository) DeleteDepartment(ctx context.Context, departmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM departments WHERE department_id = $1;`, departmentID)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgForeignKeyViolation {
			return apperrors.ErrNotEmpty
		}
		return apperrors.NewAppError(500, "failed to delete department "+departmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	return nil
}

func (r *PgxDepartmentRepository) AdjustMemberCount(ctx context.Context, departmentID string, delta int) error {
	tag, err := r.Pool.Exec(ctx, adjustMemberCountQuery, delta, departmentID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to adjust member count of "+departmentID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	return nil
}

const adjustMemberCountQuery = `UPDATE departments SET member_count = member_count + $1 WHERE department_id = $2;`
