package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

// PgxBatchWriter opens transactional write batches.
type PgxBatchWriter struct {
	BaseRepository
	now func() time.Time
}

func newPgxBatchWriter(pool PgxPool) *PgxBatchWriter {
	return &PgxBatchWriter{
		BaseRepository: BaseRepository{Pool: pool},
		now:            func() time.Time { return time.Now().UTC() },
	}
}

var _ portsrepo.BatchWriter = (*PgxBatchWriter)(nil)

func (w *PgxBatchWriter) NewBatch(actorID string) portsrepo.WriteBatch {
	return &pgxBatch{writer: w, actorID: actorID}
}

type stagedStatement struct {
	desc string
	sql  string
	args []any
	// mustAffect fails the batch when the statement matches no row.
	mustAffect bool
}

type pgxBatch struct {
	writer  *PgxBatchWriter
	actorID string
	stmts   []stagedStatement
}

var _ portsrepo.WriteBatch = (*pgxBatch)(nil)

func (b *pgxBatch) Len() int { return len(b.stmts) }

func (b *pgxBatch) stage(desc string, mustAffect bool, sql string, args ...any) {
	b.stmts = append(b.stmts, stagedStatement{desc: desc, sql: sql, args: args, mustAffect: mustAffect})
}

const insertEmployeeQuery = `
INSERT INTO employees (
	employee_id, name, email, tax_id, phone, gender,
	postal_code, street, street_number, city, state,
	job_title, hire_date, level, manager_id, status, base_salary,
	department_id, department_name, department_key,
	created_at, created_by, last_updated_at, last_updated_by
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24);
`

func (b *pgxBatch) InsertEmployee(e domain.Employee) {
	b.stage("insert employee "+e.EmployeeID, false, insertEmployeeQuery,
		e.EmployeeID, e.Name, e.Email, e.TaxID, e.Phone, string(e.Gender),
		e.PostalCode, e.Street, e.StreetNumber, e.City, e.State,
		e.JobTitle, e.HireDate, string(e.Level), e.ManagerID, string(e.Status), e.BaseSalary,
		e.DepartmentID, e.DepartmentName, textnorm.Normalize(e.DepartmentName),
		e.CreatedAt, e.CreatedBy, e.LastUpdatedAt, e.LastUpdatedBy,
	)
}

const updateEmployeeQuery = `
UPDATE employees SET
	name = $2, email = $3, tax_id = $4, phone = $5, gender = $6,
	postal_code = $7, street = $8, street_number = $9, city = $10, state = $11,
	job_title = $12, hire_date = $13, level = $14, manager_id = $15, status = $16, base_salary = $17,
	department_id = $18, department_name = $19, department_key = $20,
	last_updated_at = $21, last_updated_by = $22
WHERE employee_id = $1;
`

func (b *pgxBatch) UpdateEmployee(e domain.Employee) {
	e.Touch(b.actorID, b.writer.now())
	b.stage("update employee "+e.EmployeeID, true, updateEmployeeQuery,
		e.EmployeeID, e.Name, e.Email, e.TaxID, e.Phone, string(e.Gender),
		e.PostalCode, e.Street, e.StreetNumber, e.City, e.State,
		e.JobTitle, e.HireDate, string(e.Level), e.ManagerID, string(e.Status), e.BaseSalary,
		e.DepartmentID, e.DepartmentName, textnorm.Normalize(e.DepartmentName),
		e.LastUpdatedAt, e.LastUpdatedBy,
	)
}

const setEmployeeDepartmentQuery = `
UPDATE employees
SET department_id = $2, department_name = $3, department_key = $4, last_updated_at = $5, last_updated_by = $6
WHERE employee_id = $1;
`

func (b *pgxBatch) SetEmployeeDepartment(employeeID string, departmentID string, departmentName string) {
	b.stage("move employee "+employeeID, true, setEmployeeDepartmentQuery,
		employeeID, departmentID, departmentName, textnorm.Normalize(departmentName), b.writer.now(), b.actorID)
}

const setEmployeeStatusQuery = `
UPDATE employees SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE employee_id = $1;
`

func (b *pgxBatch) SetEmployeeStatus(employeeID string, status domain.EmployeeStatus) {
	b.stage("set status of employee "+employeeID, true, setEmployeeStatusQuery,
		employeeID, string(status), b.writer.now(), b.actorID)
}

const deleteEmployeeQuery = `DELETE FROM employees WHERE employee_id = $1;`

func (b *pgxBatch) DeleteEmployee(employeeID string) {
	b.stage("delete employee "+employeeID, true, deleteEmployeeQuery, employeeID)
}

func (b *pgxBatch) IncrementMemberCount(departmentID string, delta int) {
	b.stage("adjust member count of "+departmentID, true, adjustMemberCountQuery, delta, departmentID)
}

const setMemberCountQuery = `UPDATE departments SET member_count = $1 WHERE department_id = $2;`

func (b *pgxBatch) SetMemberCount(departmentID string, count int) {
	b.stage("set member count of "+departmentID, true, setMemberCountQuery, count, departmentID)
}

// Commit runs every staged statement in one transaction. Any failure rolls
// the whole batch back.
func (b *pgxBatch) Commit(ctx context.Context) (err error) {
	if len(b.stmts) == 0 {
		return nil
	}
	tx, err := b.writer.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = b.writer.Rollback(ctx, tx)
		}
	}()

	for i, st := range b.stmts {
		tag, execErr := tx.Exec(ctx, st.sql, st.args...)
		if execErr != nil {
			if code, _ := pgErrorCode(execErr); code == pgUniqueViolation {
				return fmt.Errorf("batch op %d (%s): %w", i, st.desc, apperrors.NewConflictError(st.desc+" conflicts with an existing row"))
			}
			return fmt.Errorf("batch op %d (%s): %w", i, st.desc, apperrors.NewAppError(500, "failed to execute batch statement", execErr))
		}
		if st.mustAffect && tag.RowsAffected() == 0 {
			return fmt.Errorf("batch op %d (%s): %w", i, st.desc, apperrors.ErrNotFound)
		}
	}
	if err = b.writer.Commit(ctx, tx); err != nil {
		return err
	}
	b.stmts = nil
	return nil
}
