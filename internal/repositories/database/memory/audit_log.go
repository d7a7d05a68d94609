package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

func (s *Store) SaveEvent(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.broadcastLocked(tableAuditEvents, opInsert, event.EventID)
	return nil
}

func (s *Store) ListRecentEvents(_ context.Context, limit int, before *domain.AuditCursor) ([]domain.AuditEvent, error) {
	s.mu.RLock()
	events := slices.Clone(s.events)
	s.mu.RUnlock()

	slices.SortFunc(events, func(a, b domain.AuditEvent) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.EventID, a.EventID)
	})
	if before != nil {
		events = slices.DeleteFunc(events, func(ev domain.AuditEvent) bool { return !before.After(ev) })
	}
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
