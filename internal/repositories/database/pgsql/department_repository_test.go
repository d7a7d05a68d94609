package pgsql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var departmentColumns = []string{
	"department_id", "name", "member_count", "manager_id",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

func TestDepartmentRepository_FindDepartmentByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager := "emp-1"

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE d.department_id = $1`)).
		WithArgs("dep-eng").
		WillReturnRows(pgxmock.NewRows(departmentColumns).
			AddRow("dep-eng", "Engenharia", 3, &manager, now, "u1", now, "u1"))

	dep, err := repo.FindDepartmentByID(context.Background(), "dep-eng")
	require.NoError(t, err)
	assert.Equal(t, "Engenharia", dep.Name)
	assert.Equal(t, 3, dep.MemberCount)
	require.NotNil(t, dep.ManagerID)
	assert.Equal(t, "emp-1", *dep.ManagerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepository_FindDepartmentByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE d.department_id = $1`)).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(departmentColumns))

	_, err = repo.FindDepartmentByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepository_SaveDepartment_StoresNameKey(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	now := time.Now().UTC()
	dep := domain.Department{DepartmentID: "dep-ops", Name: " Operações ", AuditFields: domain.NewAuditFields("u1", now)}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO departments`)).
		WithArgs("dep-ops", " Operações ", "operacoes", 0, (*string)(nil), now, "u1", now, "u1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveDepartment(context.Background(), dep))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepository_SaveDepartment_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "normalized name taken", constraint: constraintDepartmentNameKey, want: apperrors.ErrDuplicateName},
		{name: "id taken", constraint: "departments_pkey", want: apperrors.ErrDuplicate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := newPgxDepartmentRepository(mock)
			mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO departments`)).
				WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: tt.constraint})

			err = repo.SaveDepartment(context.Background(), domain.Department{DepartmentID: "dep-x", Name: "Vendas"})
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDepartmentRepository_UpdateDepartment_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE departments`)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdateDepartment(context.Background(), domain.Department{DepartmentID: "gone", Name: "X"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepository_AdjustMemberCount(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta(adjustMemberCountQuery)).
		WithArgs(-2, "dep-eng").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.AdjustMemberCount(context.Background(), "dep-eng", -2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepartmentRepository_DeleteDepartment_QueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxDepartmentRepository(mock)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM departments`)).
		WithArgs("dep-eng").
		WillReturnError(errors.New("connection reset"))

	err = repo.DeleteDepartment(context.Background(), "dep-eng")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
