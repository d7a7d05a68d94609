package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/core/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type EmployeeServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	store   *memory.Store
	audit   portssvc.AuditSvcFacade
	service portssvc.EmployeeSvcFacade
}

func (suite *EmployeeServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.audit = services.NewAuditService(suite.store)
	engine := services.NewReconciliationService(suite.store, suite.store, suite.store)
	suite.service = services.NewEmployeeService(suite.store, suite.store, engine, services.WithEmployeeAudit(suite.audit))

	suite.Require().NoError(suite.store.SaveDepartment(suite.ctx, domain.Department{DepartmentID: "dep-eng", Name: "Engenharia", MemberCount: 1}))
	suite.Require().NoError(suite.store.SaveDepartment(suite.ctx, domain.Department{DepartmentID: "dep-rh", Name: "Recursos Humanos"}))
	b := suite.store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{
		EmployeeID: "m1", Name: "Marta", Level: domain.LevelManager, Status: domain.StatusActive,
		DepartmentID: strPtr("dep-eng"), DepartmentName: "Engenharia",
	})
	suite.Require().NoError(b.Commit(suite.ctx))
}

func validInput() dto.EmployeeInput {
	return dto.EmployeeInput{
		Name:           " João Souza ",
		Email:          "Joao@Example.com",
		TaxID:          "529.982.247-25",
		Phone:          "(11) 98765-4321",
		Gender:         "male",
		PostalCode:     "01310-100",
		State:          "sp",
		JobTitle:       "Desenvolvedor",
		HireDate:       "2023-02-01",
		Level:          "mid",
		ManagerID:      "m1",
		BaseSalary:     decimal.NewFromInt(7000),
		DepartmentName: "engenharia",
	}
}

func (suite *EmployeeServiceTestSuite) count(id string) int {
	d, err := suite.store.FindDepartmentByID(suite.ctx, id)
	suite.Require().NoError(err)
	return d.MemberCount
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_NormalizesAndCounts() {
	e, err := suite.service.CreateEmployee(suite.ctx, testActor, validInput())

	suite.Require().NoError(err)
	suite.NotEmpty(e.EmployeeID)
	suite.Equal("João Souza", e.Name)
	suite.Equal("joao@example.com", e.Email)
	suite.Equal("52998224725", e.TaxID)
	suite.Equal("11987654321", e.Phone)
	suite.Equal("01310100", e.PostalCode)
	suite.Equal("SP", e.State)
	suite.Equal(domain.StatusActive, e.Status)
	suite.Require().True(e.HasDepartmentID())
	suite.Equal("dep-eng", *e.DepartmentID)
	suite.Equal("Engenharia", e.DepartmentName)
	suite.Equal(2, suite.count("dep-eng"))

	suite.audit.Wait()
	events, err := suite.audit.ListEvents(suite.ctx, domain.AuditEventFilter{Action: domain.ActionEmployeeCreate})
	suite.Require().NoError(err)
	suite.Require().Len(events, 1)
	suite.Equal(e.EmployeeID, events[0].Entity.ID)
}

func (suite *EmployeeServiceTestSuite) TestCreateEmployee_ValidationRules() {
	tests := []struct {
		name   string
		mutate func(in *dto.EmployeeInput)
		field  string
	}{
		{"invalid cpf", func(in *dto.EmployeeInput) { in.TaxID = "111.111.111-11" }, "taxID"},
		{"short phone", func(in *dto.EmployeeInput) { in.Phone = "1234" }, "phone"},
		{"bad level", func(in *dto.EmployeeInput) { in.Level = "intern" }, "level"},
		{"manager required", func(in *dto.EmployeeInput) { in.ManagerID = "" }, "managerID"},
		{"manager must be empty for managers", func(in *dto.EmployeeInput) { in.Level = "manager" }, "managerID"},
		{"manager must exist", func(in *dto.EmployeeInput) { in.ManagerID = "ghost" }, "managerID"},
		{"negative salary", func(in *dto.EmployeeInput) { in.BaseSalary = decimal.NewFromInt(-1) }, "baseSalary"},
		{"missing department", func(in *dto.EmployeeInput) { in.DepartmentName = "" }, "departmentID"},
		{"unknown department", func(in *dto.EmployeeInput) { in.DepartmentName = "Engenharia de Dados" }, "departmentID"},
		{"bad hire date", func(in *dto.EmployeeInput) { in.HireDate = "01/02/2023" }, "hireDate"},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			in := validInput()
			tt.mutate(&in)

			_, err := suite.service.CreateEmployee(suite.ctx, testActor, in)

			suite.Require().Error(err)
			var verr *apperrors.ValidationError
			suite.Require().True(errors.As(err, &verr), "got %v", err)
			fields := make([]string, 0, len(verr.Fields))
			for _, f := range verr.Fields {
				fields = append(fields, f.Field)
			}
			suite.Contains(fields, tt.field)
		})
	}
	suite.Equal(1, suite.count("dep-eng"))
}

func (suite *EmployeeServiceTestSuite) TestUpdateEmployee_MovesCount() {
	e, err := suite.service.CreateEmployee(suite.ctx, testActor, validInput())
	suite.Require().NoError(err)

	in := validInput()
	in.DepartmentName = ""
	in.DepartmentID = "dep-rh"
	updated, err := suite.service.UpdateEmployee(suite.ctx, testActor, e.EmployeeID, in)

	suite.Require().NoError(err)
	suite.Equal("dep-rh", *updated.DepartmentID)
	suite.Equal(e.CreatedAt, updated.CreatedAt)
	suite.Equal(1, suite.count("dep-eng"))
	suite.Equal(1, suite.count("dep-rh"))

	_, err = suite.service.UpdateEmployee(suite.ctx, testActor, "ghost", in)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *EmployeeServiceTestSuite) TestUpdateEmployee_CannotManageItself() {
	in := validInput()
	in.ManagerID = "m1"
	_, err := suite.service.UpdateEmployee(suite.ctx, testActor, "m1", in)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *EmployeeServiceTestSuite) TestDeleteEmployee_ReleasesSeat() {
	e, err := suite.service.CreateEmployee(suite.ctx, testActor, validInput())
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteEmployee(suite.ctx, testActor, e.EmployeeID))
	suite.Equal(1, suite.count("dep-eng"))
	suite.ErrorIs(suite.service.DeleteEmployee(suite.ctx, testActor, e.EmployeeID), apperrors.ErrNotFound)
}

func (suite *EmployeeServiceTestSuite) TestListEmployees_FiltersByResolvedDepartment() {
	b := suite.store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{EmployeeID: "l1", Name: "Lúcia", Level: domain.LevelJunior, Status: domain.StatusInactive, DepartmentName: "recursos humanos"})
	suite.Require().NoError(b.Commit(suite.ctx))

	got, err := suite.service.ListEmployees(suite.ctx, domain.EmployeeFilter{DepartmentID: "dep-rh"})
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal("l1", got[0].EmployeeID)

	got, err = suite.service.ListEmployees(suite.ctx, domain.EmployeeFilter{Query: "RECURSOS"})
	suite.Require().NoError(err)
	suite.Len(got, 1)

	got, err = suite.service.ListEmployees(suite.ctx, domain.EmployeeFilter{Query: "lucia", Status: domain.StatusActive})
	suite.Require().NoError(err)
	suite.Empty(got)

	managers, err := suite.service.ListManagers(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(managers, 1)
	suite.Equal("m1", managers[0].EmployeeID)
}

func (suite *EmployeeServiceTestSuite) TestBulkOperations_RecordAudit() {
	e, err := suite.service.CreateEmployee(suite.ctx, testActor, validInput())
	suite.Require().NoError(err)

	res, err := suite.service.BulkMove(suite.ctx, testActor, []string{e.EmployeeID, "m1"}, "dep-rh")
	suite.Require().NoError(err)
	suite.Equal(2, res.Applied)
	suite.Equal(0, suite.count("dep-eng"))
	suite.Equal(2, suite.count("dep-rh"))

	res, err = suite.service.BulkUpdateStatus(suite.ctx, testActor, []string{e.EmployeeID}, domain.StatusInactive)
	suite.Require().NoError(err)
	suite.Equal(1, res.Applied)

	res, err = suite.service.BulkDelete(suite.ctx, testActor, []string{e.EmployeeID})
	suite.Require().NoError(err)
	suite.Equal(1, res.Applied)
	suite.Equal(1, suite.count("dep-rh"))

	suite.audit.Wait()
	events, err := suite.audit.ListEvents(suite.ctx, domain.AuditEventFilter{Query: "bulk"})
	suite.Require().NoError(err)
	actions := make([]domain.AuditAction, 0, len(events))
	for _, ev := range events {
		actions = append(actions, ev.Action)
	}
	suite.ElementsMatch([]domain.AuditAction{
		domain.ActionEmployeeBulkMove,
		domain.ActionEmployeeBulkStatus,
		domain.ActionEmployeeBulkDelete,
	}, actions)
}

func TestEmployeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeServiceTestSuite))
}
