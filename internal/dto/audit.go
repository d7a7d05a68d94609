package dto

import (
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/utils/pagination"
)

// ListAuditEventsParams defines query parameters for the audit viewer.
type ListAuditEventsParams struct {
	Limit      int    `form:"limit,default=50" binding:"min=1,max=500"`
	Query      string `form:"q"`
	Action     string `form:"action"`
	EntityType string `form:"entityType" binding:"omitempty,oneof=employee department system"`
	Before     string `form:"before"`
}

// ToFilter converts the params into a domain filter. A malformed before
// token is a validation error.
func (p ListAuditEventsParams) ToFilter() (domain.AuditEventFilter, error) {
	before, err := pagination.DecodeAuditCursor(p.Before)
	if err != nil {
		return domain.AuditEventFilter{}, err
	}
	return domain.AuditEventFilter{
		Limit:      p.Limit,
		Query:      p.Query,
		Action:     domain.AuditAction(p.Action),
		EntityType: p.EntityType,
		Before:     before,
	}, nil
}

// ListAuditEventsResponse wraps audit events, newest first. NextToken is
// set when the page is full; pass it back as before to load older events.
type ListAuditEventsResponse struct {
	Events    []domain.AuditEvent `json:"events"`
	NextToken string              `json:"nextToken,omitempty"`
}

// ToListAuditEventsResponse builds a page response for a request of limit events.
func ToListAuditEventsResponse(events []domain.AuditEvent, limit int) ListAuditEventsResponse {
	resp := ListAuditEventsResponse{Events: events}
	if limit > 0 && len(events) == limit {
		resp.NextToken = pagination.EncodeAuditCursor(domain.CursorOf(events[len(events)-1]))
	}
	return resp
}
