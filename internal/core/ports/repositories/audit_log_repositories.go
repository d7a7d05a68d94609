package repositories

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// AuditLogReader defines read operations for the audit trail
type AuditLogReader interface {
	// ListRecentEvents returns up to limit events, newest first. A non-nil
	// before skips every event up to and including the cursor.
	ListRecentEvents(ctx context.Context, limit int, before *domain.AuditCursor) ([]domain.AuditEvent, error)
}

// AuditLogWriter appends to the audit trail
type AuditLogWriter interface {
	SaveEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditLogRepositoryFacade combines all audit log repository interfaces
type AuditLogRepositoryFacade interface {
	AuditLogReader
	AuditLogWriter
}
