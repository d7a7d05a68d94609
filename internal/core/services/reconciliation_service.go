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
	"github.com/SscSPs/hr_admin_app/internal/platform/metrics"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Batch operation names, used in partial failure reports and metrics.
const (
	opMove    = "move"
	opRemove  = "remove"
	opStatus  = "status"
	opAdmit   = "admit"
	opReplace = "replace"
	opRecount = "recount"
	opMigrate = "migrate"
	opDeltas  = "deltas"
)

// reconciliationService is the only writer of department member counters.
type reconciliationService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepositoryFacade
	employeeRepo   portsrepo.EmployeeRepositoryFacade
	batches        portsrepo.BatchWriter
	audit          portssvc.AuditRecorderSvc
	batchLimit     int
	now            func() time.Time
}

// ReconciliationOption is a functional option for configuring the reconciliation engine
type ReconciliationOption func(*reconciliationService)

// WithBatchLimit overrides the maximum number of staged operations per batch.
func WithBatchLimit(limit int) ReconciliationOption {
	return func(s *reconciliationService) {
		if limit > 1 {
			s.batchLimit = limit
		}
	}
}

// WithReconciliationAudit records recounts and migrations to the audit trail.
func WithReconciliationAudit(audit portssvc.AuditRecorderSvc) ReconciliationOption {
	return func(s *reconciliationService) {
		s.audit = audit
	}
}

// NewReconciliationService creates the reconciliation engine.
func NewReconciliationService(
	departmentRepo portsrepo.DepartmentRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	batches portsrepo.BatchWriter,
	options ...ReconciliationOption,
) portssvc.ReconciliationSvcFacade {
	s := &reconciliationService{
		BaseService:    BaseService{component: "reconciliation"},
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		batches:        batches,
		batchLimit:     portsrepo.DefaultMaxBatchOps,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

func (s *reconciliationService) loadIndex(ctx context.Context) (*domain.DepartmentIndex, error) {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return domain.NewDepartmentIndex(deps), nil
}

func (s *reconciliationService) commit(ctx context.Context, op string, b portsrepo.WriteBatch) error {
	staged := b.Len()
	err := b.Commit(ctx)
	metrics.ObserveBatch(op, staged, err)
	return err
}

func (s *reconciliationService) record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entity domain.AuditEntity, payload map[string]any) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, action, entity, payload)
	}
}

func cleanIDs(ids []string) []string {
	return lo.Uniq(lo.Filter(ids, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	}))
}

func mergeDeltas(into, from map[string]int) {
	for id, d := range from {
		into[id] += d
	}
}

// flushDeltas replays accumulated counter deltas as chunked increment batches.
func (s *reconciliationService) flushDeltas(ctx context.Context, actorID string, deltas map[string]int) error {
	ids := lo.Filter(lo.Keys(deltas), func(id string, _ int) bool { return deltas[id] != 0 })
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	for _, chunk := range lo.Chunk(ids, s.batchLimit) {
		b := s.batches.NewBatch(actorID)
		for _, id := range chunk {
			b.IncrementMemberCount(id, deltas[id])
		}
		if err := s.commit(ctx, opDeltas, b); err != nil {
			return fmt.Errorf("failed to apply member count deltas: %w", err)
		}
	}
	return nil
}

// partial flushes the deltas of the chunks that already committed and
// reports how far the operation got.
func (s *reconciliationService) partial(ctx context.Context, actorID, op string, committed, total, applied int, deltas map[string]int, cause error) error {
	s.LogError(ctx, cause, "Batch operation stopped after a failed chunk",
		slog.String("op", op),
		slog.Int("committed_chunks", committed),
		slog.Int("total_chunks", total),
		slog.Int("applied", applied))
	if err := s.flushDeltas(ctx, actorID, deltas); err != nil {
		s.LogError(ctx, err, "Failed to flush deltas of committed chunks; a recount is required", slog.String("op", op))
		cause = errors.Join(cause, err)
	}
	return &apperrors.PartialBatchFailure{
		Op:              op,
		CommittedChunks: committed,
		TotalChunks:     total,
		Applied:         applied,
		Cause:           cause,
	}
}

// deltasFailed reports a counter flush that failed after every membership
// chunk committed. The memberships are written, so only a recount can
// repair the counters.
func (s *reconciliationService) deltasFailed(ctx context.Context, chunks, applied int, cause error) error {
	s.LogError(ctx, cause, "Member count deltas not applied; a recount is required", slog.Int("applied", applied))
	return &apperrors.PartialBatchFailure{
		Op:              opDeltas,
		CommittedChunks: chunks,
		TotalChunks:     chunks,
		Applied:         applied,
		Cause:           cause,
	}
}

// MoveMembers points every employee in ids at targetID. Employees already
// resolving to the target are skipped, so a repeated call is a no-op.
func (s *reconciliationService) MoveMembers(ctx context.Context, actor domain.Actor, ids []string, targetID string) (*domain.BulkResult, error) {
	ids = cleanIDs(ids)
	res := &domain.BulkResult{Requested: len(ids)}
	if len(ids) == 0 {
		return res, nil
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return res, err
	}
	target, ok := ix.Get(targetID)
	if !ok {
		return res, apperrors.NewNotFoundError("target department " + targetID + " not found")
	}

	chunks := lo.Chunk(ids, s.batchLimit)
	res.Chunks = len(chunks)
	deltas := make(map[string]int)
	for i, chunk := range chunks {
		employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, chunk)
		if err != nil {
			return res, s.partial(ctx, actor.UserID, opMove, i, len(chunks), res.Applied, deltas, err)
		}
		res.Missing += len(chunk) - len(employees)

		b := s.batches.NewBatch(actor.UserID)
		chunkDeltas := make(map[string]int)
		for _, e := range employees {
			r := ix.Resolve(e)
			if r.IsResolved() && r.DepartmentID == targetID {
				res.Skipped++
				continue
			}
			b.SetEmployeeDepartment(e.EmployeeID, targetID, target.Name)
			if r.IsResolved() {
				chunkDeltas[r.DepartmentID]--
			}
			chunkDeltas[targetID]++
		}
		if b.Len() == 0 {
			continue
		}
		staged := b.Len()
		if err := s.commit(ctx, opMove, b); err != nil {
			return res, s.partial(ctx, actor.UserID, opMove, i, len(chunks), res.Applied, deltas, err)
		}
		res.Applied += staged
		mergeDeltas(deltas, chunkDeltas)
	}

	if err := s.flushDeltas(ctx, actor.UserID, deltas); err != nil {
		return res, s.deltasFailed(ctx, len(chunks), res.Applied, err)
	}
	s.LogInfo(ctx, "Moved employees", slog.String("target_department_id", targetID), slog.Int("applied", res.Applied), slog.Int("skipped", res.Skipped))
	return res, nil
}

// RemoveEmployees deletes employees and releases their department seats.
func (s *reconciliationService) RemoveEmployees(ctx context.Context, actor domain.Actor, ids []string) (*domain.BulkResult, error) {
	ids = cleanIDs(ids)
	res := &domain.BulkResult{Requested: len(ids)}
	if len(ids) == 0 {
		return res, nil
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return res, err
	}

	chunks := lo.Chunk(ids, s.batchLimit)
	res.Chunks = len(chunks)
	deltas := make(map[string]int)
	for i, chunk := range chunks {
		employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, chunk)
		if err != nil {
			return res, s.partial(ctx, actor.UserID, opRemove, i, len(chunks), res.Applied, deltas, err)
		}
		res.Missing += len(chunk) - len(employees)
		if len(employees) == 0 {
			continue
		}

		b := s.batches.NewBatch(actor.UserID)
		chunkDeltas := make(map[string]int)
		for _, e := range employees {
			b.DeleteEmployee(e.EmployeeID)
			if r := ix.Resolve(e); r.IsResolved() {
				chunkDeltas[r.DepartmentID]--
			}
		}
		if err := s.commit(ctx, opRemove, b); err != nil {
			return res, s.partial(ctx, actor.UserID, opRemove, i, len(chunks), res.Applied, deltas, err)
		}
		res.Applied += len(employees)
		mergeDeltas(deltas, chunkDeltas)
	}

	if err := s.flushDeltas(ctx, actor.UserID, deltas); err != nil {
		return res, s.deltasFailed(ctx, len(chunks), res.Applied, err)
	}
	return res, nil
}

// UpdateStatus sets status on many employees. Membership is unaffected.
func (s *reconciliationService) UpdateStatus(ctx context.Context, actor domain.Actor, ids []string, status domain.EmployeeStatus) (*domain.BulkResult, error) {
	if !status.IsValid() {
		return nil, apperrors.NewValidationError("status", "must be one of: active inactive")
	}
	ids = cleanIDs(ids)
	res := &domain.BulkResult{Requested: len(ids)}
	chunks := lo.Chunk(ids, s.batchLimit)
	res.Chunks = len(chunks)
	for i, chunk := range chunks {
		employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, chunk)
		if err != nil {
			return res, s.partial(ctx, actor.UserID, opStatus, i, len(chunks), res.Applied, nil, err)
		}
		res.Missing += len(chunk) - len(employees)

		b := s.batches.NewBatch(actor.UserID)
		for _, e := range employees {
			if e.Status == status {
				res.Skipped++
				continue
			}
			b.SetEmployeeStatus(e.EmployeeID, status)
		}
		if b.Len() == 0 {
			continue
		}
		staged := b.Len()
		if err := s.commit(ctx, opStatus, b); err != nil {
			return res, s.partial(ctx, actor.UserID, opStatus, i, len(chunks), res.Applied, nil, err)
		}
		res.Applied += staged
	}
	return res, nil
}

// AdmitEmployees inserts employees and increments their departments in the
// same batch. Chunks hold half the batch limit so that inserts and
// increments always fit together.
func (s *reconciliationService) AdmitEmployees(ctx context.Context, actor domain.Actor, employees []domain.Employee) (*domain.BulkResult, error) {
	res := &domain.BulkResult{Requested: len(employees)}
	if len(employees) == 0 {
		return res, nil
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return res, err
	}

	size := max(1, s.batchLimit/2)
	chunks := lo.Chunk(employees, size)
	res.Chunks = len(chunks)
	now := s.now()
	for i, chunk := range chunks {
		b := s.batches.NewBatch(actor.UserID)
		increments := make(map[string]int)
		for _, e := range chunk {
			if e.EmployeeID == "" {
				e.EmployeeID = uuid.NewString()
			}
			if e.CreatedAt.IsZero() {
				e.AuditFields = domain.NewAuditFields(actor.UserID, now)
			}
			b.InsertEmployee(e)
			if r := ix.Resolve(e); r.IsResolved() {
				increments[r.DepartmentID]++
			}
		}
		depIDs := lo.Keys(increments)
		sort.Strings(depIDs)
		for _, id := range depIDs {
			b.IncrementMemberCount(id, increments[id])
		}
		if err := s.commit(ctx, opAdmit, b); err != nil {
			return res, s.partial(ctx, actor.UserID, opAdmit, i, len(chunks), res.Applied, nil, err)
		}
		res.Applied += len(chunk)
	}
	return res, nil
}

// ReplaceEmployee writes employee and, when its resolved department
// changes, moves one unit of count from the old department to the new one
// within the same batch.
func (s *reconciliationService) ReplaceEmployee(ctx context.Context, actor domain.Actor, employee domain.Employee) error {
	current, err := s.employeeRepo.FindEmployeeByID(ctx, employee.EmployeeID)
	if err != nil {
		return err
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return err
	}
	before := ix.Resolve(*current)
	after := ix.Resolve(employee)

	b := s.batches.NewBatch(actor.UserID)
	b.UpdateEmployee(employee)
	if before.DepartmentID != after.DepartmentID {
		if before.IsResolved() {
			b.IncrementMemberCount(before.DepartmentID, -1)
		}
		if after.IsResolved() {
			b.IncrementMemberCount(after.DepartmentID, 1)
		}
	}
	if err := s.commit(ctx, opReplace, b); err != nil {
		return fmt.Errorf("failed to update employee %s: %w", employee.EmployeeID, err)
	}
	return nil
}

// AdjustCount applies delta with the store's atomic increment.
func (s *reconciliationService) AdjustCount(ctx context.Context, actor domain.Actor, departmentID string, delta int) error {
	if delta == 0 {
		return nil
	}
	if err := s.departmentRepo.AdjustMemberCount(ctx, departmentID, delta); err != nil {
		return err
	}
	s.LogInfo(ctx, "Adjusted department member count",
		slog.String("department_id", departmentID),
		slog.Int("delta", delta),
		slog.String("actor_id", actor.UserID))
	return nil
}

// RecomputeAllCounts rebuilds every counter from a full snapshot and
// writes exact values for the departments that drifted.
func (s *reconciliationService) RecomputeAllCounts(ctx context.Context, actor domain.Actor) (*domain.RecountReport, error) {
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	counts, unresolved := ix.CountMembers(employees)
	report := &domain.RecountReport{
		Departments: ix.Len(),
		Employees:   len(employees),
		Unresolved:  unresolved,
		Corrections: []domain.CountCorrection{},
	}
	for _, e := range employees {
		if ix.Resolve(e).IsLegacy() {
			report.Legacy++
		}
	}
	for _, d := range ix.Departments() {
		if actual := counts[d.DepartmentID]; actual != d.MemberCount {
			report.Corrections = append(report.Corrections, domain.CountCorrection{
				DepartmentID: d.DepartmentID,
				Name:         d.Name,
				Stored:       d.MemberCount,
				Actual:       actual,
			})
		}
	}

	chunks := lo.Chunk(report.Corrections, s.batchLimit)
	for i, chunk := range chunks {
		b := s.batches.NewBatch(actor.UserID)
		for _, c := range chunk {
			b.SetMemberCount(c.DepartmentID, c.Actual)
		}
		if err := s.commit(ctx, opRecount, b); err != nil {
			return report, s.partial(ctx, actor.UserID, opRecount, i, len(chunks), i*s.batchLimit, nil, err)
		}
	}

	metrics.ObserveRecount(len(report.Corrections), len(report.Unresolved))
	s.LogInfo(ctx, "Recomputed department member counts",
		slog.Int("departments", report.Departments),
		slog.Int("employees", report.Employees),
		slog.Int("corrections", len(report.Corrections)),
		slog.Int("unresolved", len(report.Unresolved)))
	s.record(ctx, actor, domain.ActionRecount, domain.AuditEntity{Type: domain.EntitySystem}, map[string]any{
		"corrections": len(report.Corrections),
		"unresolved":  len(report.Unresolved),
		"legacy":      report.Legacy,
	})
	return report, nil
}

// PlanMigration lists employees without a usable department id whose
// legacy name matches a department exactly.
func (s *reconciliationService) PlanMigration(ctx context.Context) (*domain.MigrationPlan, error) {
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return planMigration(ix, employees), nil
}

func planMigration(ix *domain.DepartmentIndex, employees []domain.Employee) *domain.MigrationPlan {
	plan := &domain.MigrationPlan{
		Total:        len(employees),
		Items:        []domain.MigrationItem{},
		UnmatchedIDs: []string{},
	}
	for _, e := range employees {
		r := ix.Resolve(e)
		if r.Kind == domain.ResolvedByID || strings.TrimSpace(e.DepartmentName) == "" {
			continue
		}
		plan.Legacy++
		if !r.IsLegacy() {
			plan.Unmatched++
			plan.UnmatchedIDs = append(plan.UnmatchedIDs, e.EmployeeID)
			continue
		}
		plan.Items = append(plan.Items, domain.MigrationItem{
			EmployeeID:     e.EmployeeID,
			LegacyName:     e.DepartmentName,
			DepartmentID:   r.DepartmentID,
			DepartmentName: ix.NameOf(r.DepartmentID),
		})
	}
	return plan
}

// ApplyMigration writes canonical ids for plan. Matched items change no
// counter because they were already counted by legacy name. With
// createMissing, departments are created for unmatched legacy names and
// the migrated employees are counted in the same batch as their id write.
func (s *reconciliationService) ApplyMigration(ctx context.Context, actor domain.Actor, plan *domain.MigrationPlan, createMissing bool) (*domain.BulkResult, []string, error) {
	if plan == nil {
		var err error
		if plan, err = s.PlanMigration(ctx); err != nil {
			return nil, nil, err
		}
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return nil, nil, err
	}

	items := append([]domain.MigrationItem(nil), plan.Items...)
	fresh := make(map[string]bool)
	created := []string{}
	if createMissing && len(plan.UnmatchedIDs) > 0 {
		newItems, names, err := s.createMissingDepartments(ctx, actor, ix, plan.UnmatchedIDs)
		if err != nil {
			return nil, created, err
		}
		created = names
		for _, it := range newItems {
			fresh[it.EmployeeID] = true
		}
		items = append(items, newItems...)
	}

	res := &domain.BulkResult{Requested: len(items)}
	chunks := lo.Chunk(items, max(1, s.batchLimit/2))
	res.Chunks = len(chunks)
	for i, chunk := range chunks {
		ids := lo.Map(chunk, func(it domain.MigrationItem, _ int) string { return it.EmployeeID })
		employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, ids)
		if err != nil {
			return res, created, s.partial(ctx, actor.UserID, opMigrate, i, len(chunks), res.Applied, nil, err)
		}
		byID := make(map[string]domain.Employee, len(employees))
		for _, e := range employees {
			byID[e.EmployeeID] = e
		}

		b := s.batches.NewBatch(actor.UserID)
		increments := make(map[string]int)
		staged := 0
		for _, it := range chunk {
			e, ok := byID[it.EmployeeID]
			if !ok {
				res.Missing++
				continue
			}
			r := ix.Resolve(e)
			if r.Kind != domain.ResolvedByLegacyName || r.DepartmentID != it.DepartmentID {
				res.Skipped++
				continue
			}
			b.SetEmployeeDepartment(e.EmployeeID, it.DepartmentID, ix.NameOf(it.DepartmentID))
			staged++
			if fresh[e.EmployeeID] {
				increments[it.DepartmentID]++
			}
		}
		for id, n := range increments {
			b.IncrementMemberCount(id, n)
		}
		if staged == 0 {
			continue
		}
		if err := s.commit(ctx, opMigrate, b); err != nil {
			return res, created, s.partial(ctx, actor.UserID, opMigrate, i, len(chunks), res.Applied, nil, err)
		}
		res.Applied += staged
	}

	s.LogInfo(ctx, "Migrated legacy department references",
		slog.Int("applied", res.Applied),
		slog.Int("skipped", res.Skipped),
		slog.Int("created_departments", len(created)))
	s.record(ctx, actor, domain.ActionMigrate, domain.AuditEntity{Type: domain.EntitySystem}, map[string]any{
		"applied":            res.Applied,
		"skipped":            res.Skipped,
		"createdDepartments": created,
	})
	return res, created, nil
}

// createMissingDepartments creates one department per distinct normalized
// legacy name among the unmatched employees and returns migration items
// pointing them at it. ix is updated in place.
func (s *reconciliationService) createMissingDepartments(ctx context.Context, actor domain.Actor, ix *domain.DepartmentIndex, unmatchedIDs []string) ([]domain.MigrationItem, []string, error) {
	employees, err := s.employeeRepo.FindEmployeesByIDs(ctx, unmatchedIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load unmatched employees: %w", err)
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].EmployeeID < employees[j].EmployeeID })

	var items []domain.MigrationItem
	created := []string{}
	for _, e := range employees {
		name := strings.TrimSpace(e.DepartmentName)
		if name == "" || ix.Resolve(e).Kind == domain.ResolvedByID {
			continue
		}
		d, found := ix.FindByName(name)
		if !found {
			d = domain.Department{
				DepartmentID: uuid.NewString(),
				Name:         name,
				AuditFields:  domain.NewAuditFields(actor.UserID, s.now()),
			}
			if err := s.departmentRepo.SaveDepartment(ctx, d); err != nil {
				if !errors.Is(err, apperrors.ErrDuplicateName) {
					return nil, created, fmt.Errorf("failed to create department %q: %w", name, err)
				}
				// Created concurrently; pick it up.
				latest, err := s.loadIndex(ctx)
				if err != nil {
					return nil, created, err
				}
				if d, found = latest.FindByName(name); !found {
					return nil, created, fmt.Errorf("department %q reported duplicate but not found: %w", name, apperrors.ErrUnresolvedReference)
				}
				ix.Add(d)
			} else {
				ix.Add(d)
				created = append(created, d.Name)
				s.LogInfo(ctx, "Created department for legacy name", slog.String("department_id", d.DepartmentID), slog.String("name", d.Name), slog.String("key", textnorm.Normalize(name)))
			}
		}
		items = append(items, domain.MigrationItem{
			EmployeeID:     e.EmployeeID,
			LegacyName:     e.DepartmentName,
			DepartmentID:   d.DepartmentID,
			DepartmentName: d.Name,
		})
	}
	return items, created, nil
}
