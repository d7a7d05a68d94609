package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/core/services"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuditLogRepository struct {
	mock.Mock
	mu    sync.Mutex
	saved []domain.AuditEvent
}

func (m *MockAuditLogRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.saved = append(m.saved, event)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockAuditLogRepository) ListRecentEvents(ctx context.Context, limit int, before *domain.AuditCursor) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, limit, before)
	var events []domain.AuditEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]domain.AuditEvent)
	}
	return events, args.Error(1)
}

func TestAuditRecord_OutlivesRequestContext(t *testing.T) {
	repo := new(MockAuditLogRepository)
	repo.On("SaveEvent", mock.Anything, mock.AnythingOfType("domain.AuditEvent")).Return(nil).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		assert.NoError(t, ctx.Err())
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
	}).Once()
	svc := services.NewAuditService(repo, services.WithAuditTimeout(time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	svc.Record(ctx, testActor, domain.ActionDepartmentCreate, domain.AuditEntity{Type: domain.EntityDepartment, ID: "d1", Name: "Vendas"}, nil)
	cancel()
	svc.Wait()

	repo.AssertExpectations(t)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, domain.ActionDepartmentCreate, repo.saved[0].Action)
	assert.Equal(t, testActor, repo.saved[0].Actor)
	assert.NotEmpty(t, repo.saved[0].EventID)
}

func TestAuditRecord_FailureIsNotPropagated(t *testing.T) {
	repo := new(MockAuditLogRepository)
	repo.On("SaveEvent", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()
	svc := services.NewAuditService(repo)

	assert.NotPanics(t, func() {
		svc.Record(context.Background(), testActor, domain.ActionRecount, domain.AuditEntity{Type: domain.EntitySystem}, nil)
		svc.Wait()
	})
	repo.AssertExpectations(t)
}

func TestListEvents_Filters(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := services.NewAuditService(store)

	svc.Record(ctx, testActor, domain.ActionDepartmentCreate, domain.AuditEntity{Type: domain.EntityDepartment, ID: "d1", Name: "Logística"}, nil)
	svc.Wait()
	svc.Record(ctx, domain.Actor{UserID: "u2", Email: "rh@example.com"}, domain.ActionEmployeeDelete, domain.AuditEntity{Type: domain.EntityEmployee, ID: "e1", Name: "Ana"}, nil)
	svc.Wait()
	svc.Record(ctx, testActor, domain.ActionRecount, domain.AuditEntity{Type: domain.EntitySystem}, nil)
	svc.Wait()

	all, err := svc.ListEvents(ctx, domain.AuditEventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ActionRecount, all[0].Action)

	limited, err := svc.ListEvents(ctx, domain.AuditEventFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	byName, err := svc.ListEvents(ctx, domain.AuditEventFilter{Query: "logistica"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "d1", byName[0].Entity.ID)

	byEmail, err := svc.ListEvents(ctx, domain.AuditEventFilter{Query: "RH@"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 1)

	byType, err := svc.ListEvents(ctx, domain.AuditEventFilter{EntityType: domain.EntitySystem})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, domain.ActionRecount, byType[0].Action)

	cursor := domain.CursorOf(all[0])
	older, err := svc.ListEvents(ctx, domain.AuditEventFilter{Before: &cursor})
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, domain.ActionEmployeeDelete, older[0].Action)
}

func TestListEvents_WidensScanWhenFiltering(t *testing.T) {
	repo := new(MockAuditLogRepository)
	repo.On("ListRecentEvents", mock.Anything, 5, (*domain.AuditCursor)(nil)).Return([]domain.AuditEvent{}, nil).Once()
	repo.On("ListRecentEvents", mock.Anything, mock.MatchedBy(func(n int) bool { return n > 5 }), (*domain.AuditCursor)(nil)).Return(nil, nil).Once()
	svc := services.NewAuditService(repo)

	_, err := svc.ListEvents(context.Background(), domain.AuditEventFilter{Limit: 5})
	require.NoError(t, err)
	_, err = svc.ListEvents(context.Background(), domain.AuditEventFilter{Limit: 5, Action: domain.ActionRecount})
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestLiveFeed_ForwardsStoreChanges(t *testing.T) {
	store := memory.NewStore()
	feed := services.NewLiveFeedService(store)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := feed.Subscribe(ctx)
	require.NoError(t, err)
	require.NoError(t, store.SaveDepartment(context.Background(), domain.Department{DepartmentID: "d9", Name: "Qualidade"}))

	select {
	case ev := <-ch:
		assert.Equal(t, "d9", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no change event received")
	}
}
