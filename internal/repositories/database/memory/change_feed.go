package memory

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

const (
	tableDepartments = "departments"
	tableEmployees   = "employees"
	tableAuditEvents = "audit_events"

	opInsert = "INSERT"
	opUpdate = "UPDATE"
	opDelete = "DELETE"

	subscriberBuffer = 64
)

// Subscribe registers a subscriber until ctx is done. Slow subscribers
// drop events rather than block writers.
func (s *Store) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch := make(chan domain.ChangeEvent, subscriberBuffer)
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subscribers, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch, nil
}

func (s *Store) broadcastLocked(table, op, id string) {
	if len(s.subscribers) == 0 {
		return
	}
	ev := domain.ChangeEvent{Table: table, Op: op, ID: id, At: s.now()}
	for _, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
