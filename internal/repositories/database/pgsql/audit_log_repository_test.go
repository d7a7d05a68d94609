package pgsql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditLogRepository_SaveEvent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxAuditLogRepository(mock)
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	ev := domain.AuditEvent{
		EventID:   "ev1",
		Action:    domain.ActionDepartmentCreate,
		Actor:     domain.Actor{UserID: "u1", Email: "ops@example.com"},
		Entity:    domain.AuditEntity{Type: domain.EntityDepartment, ID: "dep-eng", Name: "Engenharia"},
		Payload:   map[string]any{"name": "Engenharia"},
		CreatedAt: at,
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_events`)).
		WithArgs("ev1", "department:create", "u1", "ops@example.com", "department", "dep-eng", "Engenharia",
			[]byte(`{"name":"Engenharia"}`), at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveEvent(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_ListRecentEvents(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxAuditLogRepository(mock)
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"event_id", "action", "actor_id", "actor_email", "entity_type", "entity_id", "entity_name", "payload", "created_at",
	}).
		AddRow("ev2", "employee:delete", "u1", "ops@example.com", "employee", "e1", "Ana", []byte(nil), at).
		AddRow("ev1", "department:create", "u1", "ops@example.com", "department", "dep-eng", "Engenharia", []byte(`{"name":"Engenharia"}`), at)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM audit_events`)).
		WithArgs(10).
		WillReturnRows(rows)

	events, err := repo.ListRecentEvents(context.Background(), 10, nil)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.ActionEmployeeDelete, events[0].Action)
	assert.Nil(t, events[0].Payload)
	assert.Equal(t, "Engenharia", events[1].Payload["name"])
	assert.Equal(t, "ops@example.com", events[1].Actor.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditLogRepository_ListRecentEvents_AfterCursor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := newPgxAuditLogRepository(mock)
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	cursor := &domain.AuditCursor{CreatedAt: at, EventID: "ev2"}
	rows := pgxmock.NewRows([]string{
		"event_id", "action", "actor_id", "actor_email", "entity_type", "entity_id", "entity_name", "payload", "created_at",
	}).
		AddRow("ev1", "department:create", "u1", "ops@example.com", "department", "dep-eng", "Engenharia", []byte(nil), at)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE (created_at, event_id) < ($1, $2) ORDER BY created_at DESC, event_id DESC LIMIT $3`)).
		WithArgs(at, "ev2", 5).
		WillReturnRows(rows)

	events, err := repo.ListRecentEvents(context.Background(), 5, cursor)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].EventID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
