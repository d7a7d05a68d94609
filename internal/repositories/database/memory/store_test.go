package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seed(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveDepartment(ctx, domain.Department{DepartmentID: "dep-a", Name: "Engenharia"}))
	require.NoError(t, s.SaveDepartment(ctx, domain.Department{DepartmentID: "dep-b", Name: "Financeiro"}))
	b := s.NewBatch("seed")
	b.InsertEmployee(domain.Employee{EmployeeID: "e1", Name: "Ana", DepartmentID: strPtr("dep-a"), DepartmentName: "Engenharia"})
	b.InsertEmployee(domain.Employee{EmployeeID: "e2", Name: "Bruno", DepartmentName: "engenharia"})
	b.IncrementMemberCount("dep-a", 2)
	require.NoError(t, b.Commit(ctx))
}

func TestBatch_CommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)

	b := s.NewBatch("tester")
	b.SetEmployeeDepartment("e1", "dep-b", "Financeiro")
	b.IncrementMemberCount("dep-b", 1)
	b.SetEmployeeStatus("missing", domain.StatusInactive)
	assert.Equal(t, 3, b.Len())

	err := b.Commit(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))

	e1, err := s.FindEmployeeByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "dep-a", *e1.DepartmentID)
	depB, err := s.FindDepartmentByID(ctx, "dep-b")
	require.NoError(t, err)
	assert.Equal(t, 0, depB.MemberCount)
}

func TestBatch_UpdateStampsActor(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)

	b := s.NewBatch("operator-1")
	b.SetEmployeeStatus("e2", domain.StatusInactive)
	require.NoError(t, b.Commit(ctx))

	e2, err := s.FindEmployeeByID(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInactive, e2.Status)
	assert.Equal(t, "operator-1", e2.LastUpdatedBy)
}

func TestSaveDepartment_RejectsNormalizedDuplicate(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)

	err := s.SaveDepartment(ctx, domain.Department{DepartmentID: "dep-c", Name: "ENGENHARIA "})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	err = s.UpdateDepartment(ctx, domain.Department{DepartmentID: "dep-b", Name: "engenharia"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)

	assert.NoError(t, s.UpdateDepartment(ctx, domain.Department{DepartmentID: "dep-a", Name: "Engenharía"}))
}

func TestCountDepartmentReferences(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed(t, s)

	n, err := s.CountDepartmentReferences(ctx, "dep-a", "engenharia")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountDepartmentReferences(ctx, "dep-b", "financeiro")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAuditEvents_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, id := range []string{"ev1", "ev2", "ev3"} {
		require.NoError(t, s.SaveEvent(ctx, domain.AuditEvent{EventID: id}))
	}

	events, err := s.ListRecentEvents(ctx, 2, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev3", events[0].EventID)
	assert.Equal(t, "ev2", events[1].EventID)

	cursor := domain.CursorOf(events[1])
	older, err := s.ListRecentEvents(ctx, 2, &cursor)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "ev1", older[0].EventID)
}

func TestAuditEvents_OrderedByTimeNotInsertion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveEvent(ctx, domain.AuditEvent{EventID: "late", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, s.SaveEvent(ctx, domain.AuditEvent{EventID: "early", CreatedAt: base}))

	events, err := s.ListRecentEvents(ctx, 0, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "late", events[0].EventID)
}

func TestSubscribe_ReceivesCommittedChanges(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SaveDepartment(context.Background(), domain.Department{DepartmentID: "dep-x", Name: "Jurídico"}))

	select {
	case ev := <-ch:
		assert.Equal(t, "departments", ev.Table)
		assert.Equal(t, "INSERT", ev.Op)
		assert.Equal(t, "dep-x", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no change event received")
	}

	cancel()
	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
}
