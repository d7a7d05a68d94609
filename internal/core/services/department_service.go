package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type departmentService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepositoryFacade
	employeeRepo   portsrepo.EmployeeRepositoryFacade
	engine         portssvc.ReconciliationSvcFacade
	audit          portssvc.AuditRecorderSvc
	now            func() time.Time
}

// DepartmentOption is a functional option for configuring the department service
type DepartmentOption func(*departmentService)

// WithDepartmentAudit records department mutations to the audit trail.
func WithDepartmentAudit(audit portssvc.AuditRecorderSvc) DepartmentOption {
	return func(s *departmentService) {
		s.audit = audit
	}
}

// NewDepartmentService creates a new department service.
func NewDepartmentService(
	departmentRepo portsrepo.DepartmentRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	engine portssvc.ReconciliationSvcFacade,
	options ...DepartmentOption,
) portssvc.DepartmentSvcFacade {
	s := &departmentService{
		BaseService:    BaseService{component: "departments"},
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

var _ portssvc.DepartmentSvcFacade = (*departmentService)(nil)

func (s *departmentService) record(ctx context.Context, actor domain.Actor, action domain.AuditAction, d *domain.Department, payload map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, actor, action, domain.AuditEntity{Type: domain.EntityDepartment, ID: d.DepartmentID, Name: d.Name}, payload)
}

func (s *departmentService) GetDepartment(ctx context.Context, departmentID string) (*domain.Department, error) {
	return s.departmentRepo.FindDepartmentByID(ctx, departmentID)
}

func (s *departmentService) ListDepartments(ctx context.Context, query string) ([]domain.Department, error) {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list departments")
		return nil, err
	}
	if strings.TrimSpace(query) != "" {
		deps = lo.Filter(deps, func(d domain.Department, _ int) bool {
			return textnorm.Contains(d.Name, query)
		})
	}
	sort.SliceStable(deps, func(i, j int) bool {
		return textnorm.Normalize(deps[i].Name) < textnorm.Normalize(deps[j].Name)
	})
	return deps, nil
}

// ensureUniqueName rejects name when another department normalizes equal to it.
func (s *departmentService) ensureUniqueName(ctx context.Context, name, exceptID string) error {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	key := textnorm.Normalize(name)
	for _, d := range deps {
		if d.DepartmentID != exceptID && textnorm.Normalize(d.Name) == key {
			return fmt.Errorf("%w: %q conflicts with %q", apperrors.ErrDuplicateName, name, d.Name)
		}
	}
	return nil
}

// validateManager checks that managerID references an employee with level manager.
func validateManager(ctx context.Context, employees portsrepo.EmployeeReader, managerID string) error {
	m, err := employees.FindEmployeeByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("managerID", "manager not found")
		}
		return err
	}
	if !m.IsManager() {
		return apperrors.NewValidationError("managerID", "must reference an employee with level manager")
	}
	return nil
}

func (s *departmentService) CreateDepartment(ctx context.Context, actor domain.Actor, req dto.CreateDepartmentRequest) (*domain.Department, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	if err := s.ensureUniqueName(ctx, name, ""); err != nil {
		return nil, err
	}
	d := domain.Department{
		DepartmentID: uuid.NewString(),
		Name:         name,
		AuditFields:  domain.NewAuditFields(actor.UserID, s.now()),
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		if err := validateManager(ctx, s.employeeRepo, *req.ManagerID); err != nil {
			return nil, err
		}
		d.ManagerID = req.ManagerID
	}

	if err := s.departmentRepo.SaveDepartment(ctx, d); err != nil {
		s.LogError(ctx, err, "Failed to save department", slog.String("name", name))
		return nil, err
	}
	s.LogInfo(ctx, "Department created", slog.String("department_id", d.DepartmentID))
	s.record(ctx, actor, domain.ActionDepartmentCreate, &d, nil)

	if err := s.claimLegacyMembers(ctx, actor, &d); err != nil {
		return nil, err
	}
	if err := s.assignMembers(ctx, actor, &d, req.MemberIDs); err != nil {
		return nil, err
	}
	return &d, nil
}

// claimLegacyMembers adds to d's counter the employees whose legacy name
// now resolves to d. Before d got its current name they matched no
// department and were not counted anywhere.
func (s *departmentService) claimLegacyMembers(ctx context.Context, actor domain.Actor, d *domain.Department) error {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	ix := domain.NewDepartmentIndex(deps)
	n := 0
	for _, e := range employees {
		if r := ix.Resolve(e); r.IsLegacy() && r.DepartmentID == d.DepartmentID {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	if err := s.engine.AdjustCount(ctx, actor, d.DepartmentID, n); err != nil {
		s.LogError(ctx, err, "Failed to count legacy members", slog.String("department_id", d.DepartmentID))
		return fmt.Errorf("failed to count legacy members of %q: %w", d.Name, err)
	}
	d.MemberCount += n
	s.LogInfo(ctx, "Department claimed legacy members", slog.String("department_id", d.DepartmentID), slog.Int("members", n))
	return nil
}

// assignMembers moves ids into d through the engine and refreshes d's
// counter from the store.
func (s *departmentService) assignMembers(ctx context.Context, actor domain.Actor, d *domain.Department, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	res, err := s.engine.MoveMembers(ctx, actor, ids, d.DepartmentID)
	if err != nil {
		s.LogError(ctx, err, "Failed to assign department members", slog.String("department_id", d.DepartmentID))
		return err
	}
	latest, err := s.departmentRepo.FindDepartmentByID(ctx, d.DepartmentID)
	if err != nil {
		return err
	}
	d.MemberCount = latest.MemberCount
	s.record(ctx, actor, domain.ActionEmployeeBulkMove, d, map[string]any{
		"requested": res.Requested,
		"moved":     res.Applied,
		"skipped":   res.Skipped,
	})
	return nil
}

// UpdateDepartment renames and/or reassigns the manager. Before a rename,
// employees still referencing the department by its old legacy name are
// migrated to its id so that they keep resolving to it; employees whose
// legacy name matches the new name are counted afterwards.
func (s *departmentService) UpdateDepartment(ctx context.Context, actor domain.Actor, departmentID string, req dto.UpdateDepartmentRequest) (*domain.Department, error) {
	d, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	updated := *d
	payload := map[string]any{}
	renamed := false

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "is required")
		}
		if err := s.ensureUniqueName(ctx, name, departmentID); err != nil {
			return nil, err
		}
		if textnorm.Normalize(name) != textnorm.Normalize(d.Name) {
			if err := s.pinLegacyMembers(ctx, actor, departmentID); err != nil {
				return nil, err
			}
			renamed = true
		}
		payload["previousName"] = d.Name
		updated.Name = name
	}
	if req.ManagerID != nil {
		if *req.ManagerID == "" {
			updated.ManagerID = nil
		} else {
			if err := validateManager(ctx, s.employeeRepo, *req.ManagerID); err != nil {
				return nil, err
			}
			updated.ManagerID = req.ManagerID
		}
	}
	updated.Touch(actor.UserID, s.now())

	if err := s.departmentRepo.UpdateDepartment(ctx, updated); err != nil {
		s.LogError(ctx, err, "Failed to update department", slog.String("department_id", departmentID))
		return nil, err
	}
	// The stored counter is owned by the engine; report what is stored.
	updated.MemberCount = d.MemberCount
	s.record(ctx, actor, domain.ActionDepartmentUpdate, &updated, payload)

	if renamed {
		if err := s.claimLegacyMembers(ctx, actor, &updated); err != nil {
			return nil, err
		}
	}
	if err := s.assignMembers(ctx, actor, &updated, req.MemberIDs); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *departmentService) pinLegacyMembers(ctx context.Context, actor domain.Actor, departmentID string) error {
	plan, err := s.engine.PlanMigration(ctx)
	if err != nil {
		return err
	}
	plan.Items = lo.Filter(plan.Items, func(it domain.MigrationItem, _ int) bool {
		return it.DepartmentID == departmentID
	})
	plan.UnmatchedIDs = nil
	if len(plan.Items) == 0 {
		return nil
	}
	if _, _, err := s.engine.ApplyMigration(ctx, actor, plan, false); err != nil {
		return fmt.Errorf("failed to pin legacy members before rename: %w", err)
	}
	return nil
}

// DeleteDepartment refuses while the stored counter is positive or any
// employee still references the department by id or legacy name.
func (s *departmentService) DeleteDepartment(ctx context.Context, actor domain.Actor, departmentID string) error {
	d, err := s.departmentRepo.FindDepartmentByID(ctx, departmentID)
	if err != nil {
		return err
	}
	if d.MemberCount > 0 {
		return fmt.Errorf("%w: department %q has %d members", apperrors.ErrNotEmpty, d.Name, d.MemberCount)
	}
	refs, err := s.employeeRepo.CountDepartmentReferences(ctx, departmentID, textnorm.Normalize(d.Name))
	if err != nil {
		return fmt.Errorf("failed to count department references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("%w: department %q is still referenced by %d employees", apperrors.ErrNotEmpty, d.Name, refs)
	}

	if err := s.departmentRepo.DeleteDepartment(ctx, departmentID); err != nil {
		s.LogError(ctx, err, "Failed to delete department", slog.String("department_id", departmentID))
		return err
	}
	s.LogInfo(ctx, "Department deleted", slog.String("department_id", departmentID))
	s.record(ctx, actor, domain.ActionDepartmentDelete, d, nil)
	return nil
}

// MergeDepartments moves every employee resolving to source into target and
// then deletes source through the usual guard.
func (s *departmentService) MergeDepartments(ctx context.Context, actor domain.Actor, sourceID, targetID string) (*domain.BulkResult, error) {
	if sourceID == targetID {
		return nil, apperrors.NewValidationError("targetDepartmentID", "must differ from the source department")
	}
	source, err := s.departmentRepo.FindDepartmentByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := s.departmentRepo.FindDepartmentByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	ix := domain.NewDepartmentIndex(deps)
	ids := make([]string, 0)
	for _, e := range employees {
		if ix.Resolve(e).DepartmentID == sourceID {
			ids = append(ids, e.EmployeeID)
		}
	}

	res, err := s.engine.MoveMembers(ctx, actor, ids, targetID)
	if err != nil {
		return res, err
	}
	if err := s.DeleteDepartment(ctx, actor, sourceID); err != nil {
		return res, err
	}
	s.record(ctx, actor, domain.ActionDepartmentMerge, target, map[string]any{
		"sourceDepartmentID": source.DepartmentID,
		"sourceName":         source.Name,
		"moved":              res.Applied,
	})
	return res, nil
}
