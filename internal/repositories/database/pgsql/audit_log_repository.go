package pgsql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool PgxPool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

func (r *PgxAuditLogRepository) SaveEvent(ctx context.Context, event domain.AuditEvent) error {
	var payload []byte
	if len(event.Payload) > 0 {
		var err error
		if payload, err = json.Marshal(event.Payload); err != nil {
			return apperrors.NewAppError(500, "failed to encode audit payload", err)
		}
	}
	query := `
		INSERT INTO audit_events (
			event_id, action, actor_id, actor_email, entity_type, entity_id, entity_name, payload, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		event.EventID,
		string(event.Action),
		event.Actor.UserID,
		event.Actor.Email,
		event.Entity.Type,
		event.Entity.ID,
		event.Entity.Name,
		payload,
		event.CreatedAt,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return apperrors.NewConflictError("audit event " + event.EventID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save audit event", err)
	}
	return nil
}

func (r *PgxAuditLogRepository) ListRecentEvents(ctx context.Context, limit int, before *domain.AuditCursor) ([]domain.AuditEvent, error) {
	query := `
		SELECT event_id, action, actor_id, actor_email, entity_type, entity_id, entity_name, payload, created_at
		FROM audit_events
	`
	args := []any{}
	if before != nil {
		query += ` WHERE (created_at, event_id) < ($1, $2)`
		args = append(args, before.CreatedAt, before.EventID)
	}
	query += ` ORDER BY created_at DESC, event_id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit events", err)
	}
	defer rows.Close()

	events, err := pgx.CollectRows(rows, scanAuditEvent)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect audit event rows", err)
	}
	return events, nil
}

func scanAuditEvent(row pgx.CollectableRow) (domain.AuditEvent, error) {
	var (
		ev      domain.AuditEvent
		action  string
		payload []byte
		at      time.Time
	)
	err := row.Scan(
		&ev.EventID,
		&action,
		&ev.Actor.UserID,
		&ev.Actor.Email,
		&ev.Entity.Type,
		&ev.Entity.ID,
		&ev.Entity.Name,
		&payload,
		&at,
	)
	if err != nil {
		return ev, err
	}
	ev.Action = domain.AuditAction(action)
	ev.CreatedAt = at.UTC()
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &ev.Payload); err != nil {
			return ev, err
		}
	}
	return ev, nil
}
