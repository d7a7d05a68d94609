package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/SscSPs/hr_admin_app/internal/utils/validation"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type employeeService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepositoryFacade
	employeeRepo   portsrepo.EmployeeRepositoryFacade
	engine         portssvc.CountMaintainerSvc
	audit          portssvc.AuditRecorderSvc
	now            func() time.Time
}

// EmployeeOption is a functional option for configuring the employee service
type EmployeeOption func(*employeeService)

// WithEmployeeAudit records employee mutations to the audit trail.
func WithEmployeeAudit(audit portssvc.AuditRecorderSvc) EmployeeOption {
	return func(s *employeeService) {
		s.audit = audit
	}
}

// NewEmployeeService creates a new employee service. Every write is
// delegated to engine so that department counters stay in step.
func NewEmployeeService(
	departmentRepo portsrepo.DepartmentRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	engine portssvc.CountMaintainerSvc,
	options ...EmployeeOption,
) portssvc.EmployeeSvcFacade {
	s := &employeeService{
		BaseService:    BaseService{component: "employees"},
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		engine:         engine,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.EmployeeSvcFacade = (*employeeService)(nil)

func (s *employeeService) record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entity domain.AuditEntity, payload map[string]any) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, action, entity, payload)
	}
}

func employeeEntity(e *domain.Employee) domain.AuditEntity {
	return domain.AuditEntity{Type: domain.EntityEmployee, ID: e.EmployeeID, Name: e.Name}
}

func (s *employeeService) DepartmentIndex(ctx context.Context) (*domain.DepartmentIndex, error) {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return domain.NewDepartmentIndex(deps), nil
}

func (s *employeeService) GetEmployee(ctx context.Context, employeeID string) (*domain.Employee, error) {
	return s.employeeRepo.FindEmployeeByID(ctx, employeeID)
}

func (s *employeeService) ListEmployees(ctx context.Context, filter domain.EmployeeFilter) ([]domain.Employee, error) {
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list employees")
		return nil, err
	}
	ix, err := s.DepartmentIndex(ctx)
	if err != nil {
		return nil, err
	}
	return filterEmployees(employees, ix, filter), nil
}

// filterEmployees applies filter using resolved departments, so legacy
// references are found under their department's id and name.
func filterEmployees(employees []domain.Employee, ix *domain.DepartmentIndex, filter domain.EmployeeFilter) []domain.Employee {
	query := textnorm.Normalize(filter.Query)
	return lo.Filter(employees, func(e domain.Employee, _ int) bool {
		if filter.Status != "" && e.Status != filter.Status {
			return false
		}
		if filter.Level != "" && e.Level != filter.Level {
			return false
		}
		r := ix.Resolve(e)
		if filter.DepartmentID != "" && r.DepartmentID != filter.DepartmentID {
			return false
		}
		if query == "" {
			return true
		}
		deptName := e.DepartmentName
		if r.IsResolved() {
			deptName = ix.NameOf(r.DepartmentID)
		}
		for _, field := range []string{e.Name, e.Email, deptName, e.JobTitle} {
			if textnorm.Contains(field, query) {
				return true
			}
		}
		return false
	})
}

func (s *employeeService) ListManagers(ctx context.Context) ([]domain.Employee, error) {
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Filter(employees, func(e domain.Employee, _ int) bool { return e.IsManager() }), nil
}

// intakeRules selects the checks that differ between a form intake and an
// imported row.
type intakeRules struct {
	schema             any  // validated against its binding tags
	departmentOptional bool // accepts a row without a department reference
	managerOptional    bool // non-managers may omit the manager
}

// prepareEmployee validates req and builds the employee it describes. The
// department reference is resolved against ix and always written back as
// a canonical id. selfID is the id of the employee being updated, if any.
func prepareEmployee(ctx context.Context, employees portsrepo.EmployeeReader, ix *domain.DepartmentIndex, req dto.EmployeeInput, selfID string) (domain.Employee, error) {
	return buildEmployee(ctx, employees, ix, req, selfID, intakeRules{schema: req})
}

func buildEmployee(ctx context.Context, employees portsrepo.EmployeeReader, ix *domain.DepartmentIndex, req dto.EmployeeInput, selfID string, rules intakeRules) (domain.Employee, error) {
	verr := &apperrors.ValidationError{}
	if err := validation.Validator().Struct(rules.schema); err != nil {
		var fields *apperrors.ValidationError
		if !errors.As(validation.ToValidationError(err), &fields) {
			return domain.Employee{}, err
		}
		verr.Fields = append(verr.Fields, fields.Fields...)
	}
	if req.BaseSalary.IsNegative() {
		verr.Add("baseSalary", "must not be negative")
	}

	level := domain.EmployeeLevel(req.Level)
	managerID := strings.TrimSpace(req.ManagerID)
	switch {
	case level == domain.LevelManager && managerID != "":
		verr.Add("managerID", "must be empty for managers")
	case level.IsValid() && level != domain.LevelManager && managerID == "" && !rules.managerOptional:
		verr.Add("managerID", "is required unless level is manager")
	case managerID != "" && managerID == selfID:
		verr.Add("managerID", "cannot reference the employee itself")
	case managerID != "":
		if err := validateManager(ctx, employees, managerID); err != nil {
			var fields *apperrors.ValidationError
			if !errors.As(err, &fields) {
				return domain.Employee{}, err
			}
			verr.Fields = append(verr.Fields, fields.Fields...)
		}
	}

	var res domain.Resolution
	noDepartment := strings.TrimSpace(req.DepartmentID) == "" && strings.TrimSpace(req.DepartmentName) == ""
	switch {
	case noDepartment && !rules.departmentOptional:
		verr.Add("departmentID", "is required")
	case !noDepartment:
		if res = ix.ResolveReference(strings.TrimSpace(req.DepartmentID), req.DepartmentName); !res.IsResolved() {
			verr.Add("departmentID", "does not reference an existing department")
		}
	}

	var hireDate *time.Time
	if req.HireDate != "" {
		if t, err := time.Parse(dto.DateLayout, req.HireDate); err == nil {
			hireDate = &t
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.Employee{}, err
	}

	status := domain.EmployeeStatus(req.Status)
	if status == "" {
		status = domain.StatusActive
	}
	e := domain.Employee{
		EmployeeID:   selfID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		TaxID:        validation.OnlyDigits(req.TaxID),
		Phone:        validation.OnlyDigits(req.Phone),
		Gender:       domain.Gender(req.Gender),
		PostalCode:   validation.OnlyDigits(req.PostalCode),
		Street:       strings.TrimSpace(req.Street),
		StreetNumber: strings.TrimSpace(req.StreetNumber),
		City:         strings.TrimSpace(req.City),
		State:        strings.ToUpper(strings.TrimSpace(req.State)),
		JobTitle:     strings.TrimSpace(req.JobTitle),
		HireDate:     hireDate,
		Level:        level,
		Status:       status,
		BaseSalary:   req.BaseSalary,
	}
	if res.IsResolved() {
		departmentID := res.DepartmentID
		e.DepartmentID = &departmentID
		e.DepartmentName = ix.NameOf(departmentID)
	}
	if managerID != "" {
		e.ManagerID = &managerID
	}
	return e, nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actor domain.Actor, req dto.EmployeeInput) (*domain.Employee, error) {
	ix, err := s.DepartmentIndex(ctx)
	if err != nil {
		return nil, err
	}
	e, err := prepareEmployee(ctx, s.employeeRepo, ix, req, "")
	if err != nil {
		return nil, err
	}
	e.EmployeeID = uuid.NewString()
	e.AuditFields = domain.NewAuditFields(actor.UserID, s.now())

	if _, err := s.engine.AdmitEmployees(ctx, actor, []domain.Employee{e}); err != nil {
		s.LogError(ctx, err, "Failed to create employee")
		return nil, err
	}
	s.LogInfo(ctx, "Employee created", slog.String("employee_id", e.EmployeeID))
	s.record(ctx, actor, domain.ActionEmployeeCreate, employeeEntity(&e), map[string]any{"departmentID": *e.DepartmentID})
	return &e, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actor domain.Actor, employeeID string, req dto.EmployeeInput) (*domain.Employee, error) {
	current, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	ix, err := s.DepartmentIndex(ctx)
	if err != nil {
		return nil, err
	}
	e, err := prepareEmployee(ctx, s.employeeRepo, ix, req, employeeID)
	if err != nil {
		return nil, err
	}
	e.AuditFields = current.AuditFields
	e.Touch(actor.UserID, s.now())

	if err := s.engine.ReplaceEmployee(ctx, actor, e); err != nil {
		s.LogError(ctx, err, "Failed to update employee", slog.String("employee_id", employeeID))
		return nil, err
	}
	payload := map[string]any{}
	if before := ix.Resolve(*current); before.DepartmentID != *e.DepartmentID {
		payload["fromDepartmentID"] = before.DepartmentID
		payload["toDepartmentID"] = *e.DepartmentID
	}
	s.record(ctx, actor, domain.ActionEmployeeUpdate, employeeEntity(&e), payload)
	return &e, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, actor domain.Actor, employeeID string) error {
	current, err := s.employeeRepo.FindEmployeeByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if _, err := s.engine.RemoveEmployees(ctx, actor, []string{employeeID}); err != nil {
		s.LogError(ctx, err, "Failed to delete employee", slog.String("employee_id", employeeID))
		return err
	}
	s.record(ctx, actor, domain.ActionEmployeeDelete, employeeEntity(current), nil)
	return nil
}

func (s *employeeService) recordBulk(ctx context.Context, actor domain.Actor, action domain.AuditAction, res *domain.BulkResult, payload map[string]any) {
	if res == nil || res.Applied == 0 {
		return
	}
	payload["requested"] = res.Requested
	payload["applied"] = res.Applied
	s.record(ctx, actor, action, domain.AuditEntity{Type: domain.EntityEmployee}, payload)
}

func (s *employeeService) BulkUpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.EmployeeStatus) (*domain.BulkResult, error) {
	res, err := s.engine.UpdateStatus(ctx, actor, ids, status)
	s.recordBulk(ctx, actor, domain.ActionEmployeeBulkStatus, res, map[string]any{"status": status})
	return res, err
}

func (s *employeeService) BulkMove(ctx context.Context, actor domain.Actor, ids []string, targetDepartmentID string) (*domain.BulkResult, error) {
	res, err := s.engine.MoveMembers(ctx, actor, ids, targetDepartmentID)
	s.recordBulk(ctx, actor, domain.ActionEmployeeBulkMove, res, map[string]any{"targetDepartmentID": targetDepartmentID})
	return res, err
}

func (s *employeeService) BulkDelete(ctx context.Context, actor domain.Actor, ids []string) (*domain.BulkResult, error) {
	res, err := s.engine.RemoveEmployees(ctx, actor, ids)
	s.recordBulk(ctx, actor, domain.ActionEmployeeBulkDelete, res, map[string]any{})
	return res, err
}
