package services

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// AuditRecorderSvc appends audit events without blocking the caller.
type AuditRecorderSvc interface {
	// Record stores an event in the background. Failures are logged, never returned.
	Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entity domain.AuditEntity, payload map[string]any)

	// Wait blocks until in-flight appends finish.
	Wait()
}

// AuditReaderSvc backs the audit log viewer.
type AuditReaderSvc interface {
	ListEvents(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error)
}

// AuditSvcFacade combines audit interfaces
type AuditSvcFacade interface {
	AuditRecorderSvc
	AuditReaderSvc
}

// LiveFeedSvc streams committed changes to subscribers.
type LiveFeedSvc interface {
	// Subscribe returns a channel closed when ctx is done.
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
