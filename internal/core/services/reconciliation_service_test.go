package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/core/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var testActor = domain.Actor{UserID: "operator-1", Email: "operator@example.com"}

func strPtr(s string) *string { return &s }

// failingBatches wraps a BatchWriter and fails the commit with the given
// 1-based sequence number.
type failingBatches struct {
	inner  portsrepo.BatchWriter
	failOn int
	mu     sync.Mutex
	n      int
}

type failingBatch struct {
	portsrepo.WriteBatch
	parent *failingBatches
}

func (f *failingBatches) NewBatch(actorID string) portsrepo.WriteBatch {
	return &failingBatch{WriteBatch: f.inner.NewBatch(actorID), parent: f}
}

func (b *failingBatch) Commit(ctx context.Context) error {
	b.parent.mu.Lock()
	b.parent.n++
	n := b.parent.n
	b.parent.mu.Unlock()
	if n == b.parent.failOn {
		return errors.New("injected commit failure")
	}
	return b.WriteBatch.Commit(ctx)
}

type ReconciliationTestSuite struct {
	suite.Suite
	ctx    context.Context
	store  *memory.Store
	engine portssvc.ReconciliationSvcFacade
	depts  portssvc.DepartmentSvcFacade
}

func (suite *ReconciliationTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = memory.NewStore()
	suite.engine = services.NewReconciliationService(suite.store, suite.store, suite.store)
	suite.depts = services.NewDepartmentService(suite.store, suite.store, suite.engine)

	require := suite.Require()
	require.NoError(suite.store.SaveDepartment(suite.ctx, domain.Department{DepartmentID: "dep-eng", Name: "Engenharia"}))
	require.NoError(suite.store.SaveDepartment(suite.ctx, domain.Department{DepartmentID: "dep-fin", Name: "Financeiro"}))

	b := suite.store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{EmployeeID: "e1", Name: "Ana", DepartmentID: strPtr("dep-eng"), DepartmentName: "Engenharia"})
	b.InsertEmployee(domain.Employee{EmployeeID: "e2", Name: "Bruno", DepartmentName: "engenharia"})
	b.InsertEmployee(domain.Employee{EmployeeID: "e3", Name: "Carla", DepartmentName: "ENGENHARIA "})
	b.InsertEmployee(domain.Employee{EmployeeID: "e4", Name: "Diego", DepartmentName: "Jurídico"})
	require.NoError(b.Commit(suite.ctx))
}

func (suite *ReconciliationTestSuite) memberCount(id string) int {
	d, err := suite.store.FindDepartmentByID(suite.ctx, id)
	suite.Require().NoError(err)
	return d.MemberCount
}

func (suite *ReconciliationTestSuite) recount() *domain.RecountReport {
	report, err := suite.engine.RecomputeAllCounts(suite.ctx, testActor)
	suite.Require().NoError(err)
	return report
}

func (suite *ReconciliationTestSuite) TestRecount_CountsLegacyReferences() {
	report := suite.recount()

	suite.Equal(2, report.Departments)
	suite.Equal(4, report.Employees)
	suite.Equal(2, report.Legacy)
	suite.Equal([]string{"e4"}, report.Unresolved)
	suite.Require().Len(report.Corrections, 1)
	suite.Equal(domain.CountCorrection{DepartmentID: "dep-eng", Name: "Engenharia", Stored: 0, Actual: 3}, report.Corrections[0])
	suite.Equal(3, suite.memberCount("dep-eng"))
	suite.Equal(0, suite.memberCount("dep-fin"))

	again := suite.recount()
	suite.Empty(again.Corrections)
}

func (suite *ReconciliationTestSuite) TestMoveMembers_IsIdempotent() {
	suite.recount()

	res, err := suite.engine.MoveMembers(suite.ctx, testActor, []string{"e1", "e2", "e2", "", "ghost"}, "dep-fin")
	suite.Require().NoError(err)
	suite.Equal(3, res.Requested)
	suite.Equal(2, res.Applied)
	suite.Equal(1, res.Missing)
	suite.Equal(1, suite.memberCount("dep-eng"))
	suite.Equal(2, suite.memberCount("dep-fin"))

	res, err = suite.engine.MoveMembers(suite.ctx, testActor, []string{"e1", "e2"}, "dep-fin")
	suite.Require().NoError(err)
	suite.Equal(0, res.Applied)
	suite.Equal(2, res.Skipped)
	suite.Equal(1, suite.memberCount("dep-eng"))
	suite.Equal(2, suite.memberCount("dep-fin"))

	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestMoveMembers_LegacyMemberOfTargetIsSkipped() {
	suite.recount()

	res, err := suite.engine.MoveMembers(suite.ctx, testActor, []string{"e3"}, "dep-eng")
	suite.Require().NoError(err)
	suite.Equal(1, res.Skipped)
	suite.Equal(3, suite.memberCount("dep-eng"))

	e3, err := suite.store.FindEmployeeByID(suite.ctx, "e3")
	suite.Require().NoError(err)
	suite.False(e3.HasDepartmentID())
}

func (suite *ReconciliationTestSuite) TestMoveMembers_UnresolvedEmployeeOnlyIncrementsTarget() {
	suite.recount()

	_, err := suite.engine.MoveMembers(suite.ctx, testActor, []string{"e4"}, "dep-fin")
	suite.Require().NoError(err)
	suite.Equal(3, suite.memberCount("dep-eng"))
	suite.Equal(1, suite.memberCount("dep-fin"))
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestMoveMembers_UnknownTarget() {
	_, err := suite.engine.MoveMembers(suite.ctx, testActor, []string{"e1"}, "dep-none")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ReconciliationTestSuite) TestAdjustCount_ConcurrentDeltasCommute() {
	suite.recount()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			suite.NoError(suite.engine.AdjustCount(suite.ctx, testActor, "dep-eng", 1))
		}()
		go func() {
			defer wg.Done()
			suite.NoError(suite.engine.AdjustCount(suite.ctx, testActor, "dep-eng", -1))
		}()
	}
	wg.Wait()

	suite.Equal(3, suite.memberCount("dep-eng"))
}

func (suite *ReconciliationTestSuite) TestRemoveEmployees_ReleasesSeats() {
	suite.recount()

	res, err := suite.engine.RemoveEmployees(suite.ctx, testActor, []string{"e1", "e2", "e4", "ghost"})
	suite.Require().NoError(err)
	suite.Equal(3, res.Applied)
	suite.Equal(1, res.Missing)
	suite.Equal(1, suite.memberCount("dep-eng"))
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestAdmitAndReplace_KeepCountsInStep() {
	suite.recount()

	res, err := suite.engine.AdmitEmployees(suite.ctx, testActor, []domain.Employee{
		{EmployeeID: "e5", Name: "Eva", DepartmentID: strPtr("dep-fin"), DepartmentName: "Financeiro"},
		{Name: "Fábio", DepartmentName: "financeiro"},
	})
	suite.Require().NoError(err)
	suite.Equal(2, res.Applied)
	suite.Equal(2, suite.memberCount("dep-fin"))

	e5, err := suite.store.FindEmployeeByID(suite.ctx, "e5")
	suite.Require().NoError(err)
	suite.Equal(testActor.UserID, e5.CreatedBy)

	moved := *e5
	moved.DepartmentID = strPtr("dep-eng")
	moved.DepartmentName = "Engenharia"
	suite.Require().NoError(suite.engine.ReplaceEmployee(suite.ctx, testActor, moved))
	suite.Equal(1, suite.memberCount("dep-fin"))
	suite.Equal(4, suite.memberCount("dep-eng"))

	moved.Name = "Eva Souza"
	suite.Require().NoError(suite.engine.ReplaceEmployee(suite.ctx, testActor, moved))
	suite.Equal(4, suite.memberCount("dep-eng"))

	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestMigration_PreservesCounts() {
	suite.recount()

	plan, err := suite.engine.PlanMigration(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(3, plan.Legacy)
	suite.Len(plan.Items, 2)
	suite.Equal([]string{"e4"}, plan.UnmatchedIDs)

	res, created, err := suite.engine.ApplyMigration(suite.ctx, testActor, plan, false)
	suite.Require().NoError(err)
	suite.Equal(2, res.Applied)
	suite.Empty(created)
	suite.Equal(3, suite.memberCount("dep-eng"))

	e2, err := suite.store.FindEmployeeByID(suite.ctx, "e2")
	suite.Require().NoError(err)
	suite.Require().True(e2.HasDepartmentID())
	suite.Equal("dep-eng", *e2.DepartmentID)
	suite.Equal("Engenharia", e2.DepartmentName)

	again, _, err := suite.engine.ApplyMigration(suite.ctx, testActor, plan, false)
	suite.Require().NoError(err)
	suite.Equal(0, again.Applied)
	suite.Equal(2, again.Skipped)
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestMigration_CreateMissingCountsNewMembers() {
	suite.recount()

	res, created, err := suite.engine.ApplyMigration(suite.ctx, testActor, nil, true)
	suite.Require().NoError(err)
	suite.Equal(3, res.Applied)
	suite.Equal([]string{"Jurídico"}, created)

	deps, err := suite.store.ListDepartments(suite.ctx)
	suite.Require().NoError(err)
	ix := domain.NewDepartmentIndex(deps)
	juridico, found := ix.FindByName("juridico")
	suite.Require().True(found)
	suite.Equal(1, juridico.MemberCount)
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestDepartmentNames_RejectNormalizedDuplicates() {
	_, err := suite.depts.CreateDepartment(suite.ctx, testActor, dto.CreateDepartmentRequest{Name: "engenharia"})
	suite.ErrorIs(err, apperrors.ErrDuplicateName)

	_, err = suite.depts.CreateDepartment(suite.ctx, testActor, dto.CreateDepartmentRequest{Name: "  FINANCEIRO"})
	suite.ErrorIs(err, apperrors.ErrDuplicateName)

	d, err := suite.depts.CreateDepartment(suite.ctx, testActor, dto.CreateDepartmentRequest{Name: "Operações"})
	suite.Require().NoError(err)
	suite.Equal(0, d.MemberCount)
}

func (suite *ReconciliationTestSuite) TestDeleteDepartment_GuardFollowsMembership() {
	// Stored count is still zero: references alone block deletion.
	err := suite.depts.DeleteDepartment(suite.ctx, testActor, "dep-eng")
	suite.ErrorIs(err, apperrors.ErrNotEmpty)

	suite.recount()
	err = suite.depts.DeleteDepartment(suite.ctx, testActor, "dep-eng")
	suite.ErrorIs(err, apperrors.ErrNotEmpty)

	_, err = suite.engine.MoveMembers(suite.ctx, testActor, []string{"e1", "e2", "e3"}, "dep-fin")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.depts.DeleteDepartment(suite.ctx, testActor, "dep-eng"))

	_, err = suite.store.FindDepartmentByID(suite.ctx, "dep-eng")
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Equal(3, suite.memberCount("dep-fin"))
}

func (suite *ReconciliationTestSuite) TestMergeDepartments() {
	suite.recount()

	res, err := suite.depts.MergeDepartments(suite.ctx, testActor, "dep-eng", "dep-fin")
	suite.Require().NoError(err)
	suite.Equal(3, res.Applied)
	suite.Equal(3, suite.memberCount("dep-fin"))

	_, err = suite.store.FindDepartmentByID(suite.ctx, "dep-eng")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.depts.MergeDepartments(suite.ctx, testActor, "dep-fin", "dep-fin")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReconciliationTestSuite) TestRenameDepartment_PinsLegacyMembers() {
	suite.recount()

	newName := "Tecnologia"
	d, err := suite.depts.UpdateDepartment(suite.ctx, testActor, "dep-eng", dto.UpdateDepartmentRequest{Name: &newName})
	suite.Require().NoError(err)
	suite.Equal("Tecnologia", d.Name)

	report := suite.recount()
	suite.Empty(report.Corrections)
	suite.Equal(0, report.Legacy)
	suite.Equal(3, suite.memberCount("dep-eng"))
}

func (suite *ReconciliationTestSuite) TestCreateDepartment_ClaimsMatchingLegacyMembers() {
	suite.recount()

	d, err := suite.depts.CreateDepartment(suite.ctx, testActor, dto.CreateDepartmentRequest{Name: "Juridico"})
	suite.Require().NoError(err)
	suite.Equal(1, d.MemberCount)
	suite.Equal(1, suite.memberCount(d.DepartmentID))
	suite.Empty(suite.recount().Corrections)

	_, err = suite.engine.MoveMembers(suite.ctx, testActor, []string{"e4"}, "dep-fin")
	suite.Require().NoError(err)
	suite.Equal(0, suite.memberCount(d.DepartmentID))
	suite.Equal(1, suite.memberCount("dep-fin"))
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestRenameDepartment_ClaimsMatchingLegacyMembers() {
	suite.recount()

	newName := "JURÍDICO"
	d, err := suite.depts.UpdateDepartment(suite.ctx, testActor, "dep-fin", dto.UpdateDepartmentRequest{Name: &newName})
	suite.Require().NoError(err)
	suite.Equal(1, d.MemberCount)
	suite.Equal(1, suite.memberCount("dep-fin"))
	suite.Empty(suite.recount().Corrections)

	_, err = suite.engine.RemoveEmployees(suite.ctx, testActor, []string{"e4"})
	suite.Require().NoError(err)
	suite.Equal(0, suite.memberCount("dep-fin"))
	suite.Equal(3, suite.memberCount("dep-eng"))
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestCreateDepartment_AssignsMembers() {
	suite.recount()

	d, err := suite.depts.CreateDepartment(suite.ctx, testActor, dto.CreateDepartmentRequest{
		Name:      "Operações",
		MemberIDs: []string{"e1", "e2", "e4"},
	})
	suite.Require().NoError(err)
	suite.Equal(3, d.MemberCount)
	suite.Equal(3, suite.memberCount(d.DepartmentID))
	suite.Equal(1, suite.memberCount("dep-eng"))

	e2, err := suite.store.FindEmployeeByID(suite.ctx, "e2")
	suite.Require().NoError(err)
	suite.Require().True(e2.HasDepartmentID())
	suite.Equal(d.DepartmentID, *e2.DepartmentID)
	suite.Empty(suite.recount().Corrections)
}

func (suite *ReconciliationTestSuite) TestUpdateDepartment_AssignsMembers() {
	suite.recount()

	d, err := suite.depts.UpdateDepartment(suite.ctx, testActor, "dep-fin", dto.UpdateDepartmentRequest{MemberIDs: []string{"e1", "e3"}})
	suite.Require().NoError(err)
	suite.Equal("Financeiro", d.Name)
	suite.Equal(2, d.MemberCount)
	suite.Equal(1, suite.memberCount("dep-eng"))

	again, err := suite.depts.UpdateDepartment(suite.ctx, testActor, "dep-fin", dto.UpdateDepartmentRequest{MemberIDs: []string{"e1", "e3"}})
	suite.Require().NoError(err)
	suite.Equal(2, again.MemberCount)
	suite.Empty(suite.recount().Corrections)

	_, err = suite.depts.UpdateDepartment(suite.ctx, testActor, "dep-none", dto.UpdateDepartmentRequest{MemberIDs: []string{"e1"}})
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestReconciliationTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationTestSuite))
}

// A chunked move that fails midway keeps the committed chunks and their
// counter deltas, so counts stay exact without a recount. Repeating the
// same call finishes the move without counting the first chunk twice.
func TestMoveMembers_PartialFailureKeepsCommittedChunks(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "src", Name: "Origem"}))
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "dst", Name: "Destino"}))

	ids := make([]string, 1000)
	b := store.NewBatch("seed")
	for i := range ids {
		ids[i] = fmt.Sprintf("emp-%04d", i)
		b.InsertEmployee(domain.Employee{EmployeeID: ids[i], Name: ids[i], DepartmentID: strPtr("src"), DepartmentName: "Origem"})
	}
	b.SetMemberCount("src", len(ids))
	require.NoError(t, b.Commit(ctx))

	batches := &failingBatches{inner: store, failOn: 2}
	engine := services.NewReconciliationService(store, store, batches, services.WithBatchLimit(400))

	res, err := engine.MoveMembers(ctx, testActor, ids, "dst")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPartialBatch)
	var partial *apperrors.PartialBatchFailure
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, 1, partial.CommittedChunks)
	assert.Equal(t, 3, partial.TotalChunks)
	assert.Equal(t, 400, partial.Applied)
	assert.Equal(t, 400, res.Applied)

	src, err := store.FindDepartmentByID(ctx, "src")
	require.NoError(t, err)
	dst, err := store.FindDepartmentByID(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, 600, src.MemberCount)
	assert.Equal(t, 400, dst.MemberCount)

	first, err := store.FindEmployeesByIDs(ctx, ids[:400])
	require.NoError(t, err)
	for _, e := range first {
		require.True(t, e.HasDepartmentID())
		assert.Equal(t, "dst", *e.DepartmentID, e.EmployeeID)
	}
	rest, err := store.FindEmployeesByIDs(ctx, ids[400:])
	require.NoError(t, err)
	require.Len(t, rest, 600)
	for _, e := range rest {
		require.True(t, e.HasDepartmentID())
		assert.Equal(t, "src", *e.DepartmentID, e.EmployeeID)
	}

	report, err := engine.RecomputeAllCounts(ctx, testActor)
	require.NoError(t, err)
	assert.Empty(t, report.Corrections)

	res, err = engine.MoveMembers(ctx, testActor, ids, "dst")
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Requested)
	assert.Equal(t, 400, res.Skipped)
	assert.Equal(t, 600, res.Applied)

	src, err = store.FindDepartmentByID(ctx, "src")
	require.NoError(t, err)
	dst, err = store.FindDepartmentByID(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, 0, src.MemberCount)
	assert.Equal(t, 1000, dst.MemberCount)

	report, err = engine.RecomputeAllCounts(ctx, testActor)
	require.NoError(t, err)
	assert.Empty(t, report.Corrections)
}

func TestMoveMembers_FailedDeltaFlushIsPartial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "src", Name: "Origem", MemberCount: 2}))
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "dst", Name: "Destino"}))
	b := store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{EmployeeID: "a", DepartmentID: strPtr("src")})
	b.InsertEmployee(domain.Employee{EmployeeID: "b", DepartmentID: strPtr("src")})
	require.NoError(t, b.Commit(ctx))

	// Commit 1 is the membership chunk, commit 2 the counter deltas.
	engine := services.NewReconciliationService(store, store, &failingBatches{inner: store, failOn: 2})

	res, err := engine.MoveMembers(ctx, testActor, []string{"a", "b"}, "dst")

	assert.ErrorIs(t, err, apperrors.ErrPartialBatch)
	var partial *apperrors.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "deltas", partial.Op)
	assert.Equal(t, 1, partial.CommittedChunks)
	assert.Equal(t, 1, partial.TotalChunks)
	assert.Equal(t, 2, partial.Applied)
	assert.Equal(t, 2, res.Applied)

	report, err := engine.RecomputeAllCounts(ctx, testActor)
	require.NoError(t, err)
	assert.Len(t, report.Corrections, 2)
}

func TestRemoveEmployees_FailedDeltaFlushIsPartial(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "src", Name: "Origem", MemberCount: 2}))
	b := store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{EmployeeID: "a", DepartmentID: strPtr("src")})
	b.InsertEmployee(domain.Employee{EmployeeID: "b", DepartmentID: strPtr("src")})
	require.NoError(t, b.Commit(ctx))

	engine := services.NewReconciliationService(store, store, &failingBatches{inner: store, failOn: 2})

	res, err := engine.RemoveEmployees(ctx, testActor, []string{"a", "b"})

	var partial *apperrors.PartialBatchFailure
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "deltas", partial.Op)
	assert.Equal(t, 2, res.Applied)

	src, err := store.FindDepartmentByID(ctx, "src")
	require.NoError(t, err)
	assert.Equal(t, 2, src.MemberCount)

	report, err := engine.RecomputeAllCounts(ctx, testActor)
	require.NoError(t, err)
	require.Len(t, report.Corrections, 1)
	assert.Equal(t, domain.CountCorrection{DepartmentID: "src", Name: "Origem", Stored: 2, Actual: 0}, report.Corrections[0])
}

func TestWithBatchLimit_ChunksOperations(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.SaveDepartment(ctx, domain.Department{DepartmentID: "d1", Name: "Vendas"}))

	employees := make([]domain.Employee, 25)
	for i := range employees {
		employees[i] = domain.Employee{EmployeeID: fmt.Sprintf("x%02d", i), DepartmentID: strPtr("d1")}
	}
	engine := services.NewReconciliationService(store, store, store, services.WithBatchLimit(10))

	res, err := engine.AdmitEmployees(ctx, testActor, employees)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Chunks)
	assert.Equal(t, 25, res.Applied)

	res, err = engine.UpdateStatus(ctx, testActor, []string{"x00", "x01"}, domain.StatusInactive)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)

	_, err = engine.UpdateStatus(ctx, testActor, []string{"x00"}, "retired")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	d, err := store.FindDepartmentByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 25, d.MemberCount)
}
