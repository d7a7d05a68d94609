package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/platform/metrics"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	defaultAuditLimit   = 50
	maxAuditScan        = 1000
	defaultAuditTimeout = 5 * time.Second
)

type auditService struct {
	BaseService
	auditRepo portsrepo.AuditLogRepositoryFacade
	timeout   time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// AuditOption is a functional option for configuring the audit service
type AuditOption func(*auditService)

// WithAuditTimeout bounds each background append.
func WithAuditTimeout(d time.Duration) AuditOption {
	return func(s *auditService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditLogRepositoryFacade, options ...AuditOption) portssvc.AuditSvcFacade {
	s := &auditService{
		BaseService: BaseService{component: "audit"},
		auditRepo:   auditRepo,
		timeout:     defaultAuditTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// Record appends the event in its own goroutine. The request context only
// contributes its values; the append outlives the request.
func (s *auditService) Record(ctx context.Context, actor domain.Actor, action domain.AuditAction, entity domain.AuditEntity, payload map[string]any) {
	event := domain.AuditEvent{
		EventID:   uuid.NewString(),
		Action:    action,
		Actor:     actor,
		Entity:    entity,
		Payload:   payload,
		CreatedAt: s.now(),
	}
	logger := s.GetLogger(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		appendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		err := s.auditRepo.SaveEvent(appendCtx, event)
		metrics.ObserveAuditAppend(err)
		if err != nil {
			logger.Error("Failed to append audit event",
				slog.String("error", err.Error()),
				slog.String("action", string(action)),
				slog.String("entity_type", entity.Type),
				slog.String("entity_id", entity.ID))
		}
	}()
}

// Wait blocks until every in-flight append has finished.
func (s *auditService) Wait() {
	s.wg.Wait()
}

func (s *auditService) ListEvents(ctx context.Context, filter domain.AuditEventFilter) ([]domain.AuditEvent, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	filtering := filter.Query != "" || filter.Action != "" || filter.EntityType != ""
	scan := limit
	if filtering {
		scan = max(limit, maxAuditScan)
	}

	events, err := s.auditRepo.ListRecentEvents(ctx, scan, filter.Before)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit events")
		return nil, err
	}
	if filtering {
		query := textnorm.Normalize(filter.Query)
		events = lo.Filter(events, func(ev domain.AuditEvent, _ int) bool {
			return matchesAuditFilter(ev, filter, query)
		})
	}
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func matchesAuditFilter(ev domain.AuditEvent, filter domain.AuditEventFilter, query string) bool {
	if filter.Action != "" && ev.Action != filter.Action {
		return false
	}
	if filter.EntityType != "" && ev.Entity.Type != filter.EntityType {
		return false
	}
	if query == "" {
		return true
	}
	for _, field := range []string{string(ev.Action), ev.Actor.Email, ev.Actor.UserID, ev.Entity.Name, ev.Entity.ID} {
		if textnorm.Contains(field, query) {
			return true
		}
	}
	return false
}

// liveFeedService tracks subscribers of the repository change feed.
type liveFeedService struct {
	feed portsrepo.ChangeFeed
}

// NewLiveFeedService exposes the store's change feed to the HTTP layer.
func NewLiveFeedService(feed portsrepo.ChangeFeed) portssvc.LiveFeedSvc {
	return &liveFeedService{feed: feed}
}

func (s *liveFeedService) Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error) {
	ch, err := s.feed.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	release := metrics.LiveSubscriberConnected()
	go func() {
		<-ctx.Done()
		release()
	}()
	return ch, nil
}
