package domain

import "time"

// AuditAction names a recorded mutation, formatted as "entity:verb".
type AuditAction string

const (
	ActionEmployeeCreate     AuditAction = "employee:create"
	ActionEmployeeUpdate     AuditAction = "employee:update"
	ActionEmployeeDelete     AuditAction = "employee:delete"
	ActionEmployeeBulkStatus AuditAction = "employee:bulk-status"
	ActionEmployeeBulkMove   AuditAction = "employee:bulk-move"
	ActionEmployeeBulkDelete AuditAction = "employee:bulk-delete"
	ActionEmployeeImport     AuditAction = "employee:import"
	ActionDepartmentCreate   AuditAction = "department:create"
	ActionDepartmentUpdate   AuditAction = "department:update"
	ActionDepartmentDelete   AuditAction = "department:delete"
	ActionDepartmentMerge    AuditAction = "department:merge"
	ActionRecount            AuditAction = "reconciliation:recount"
	ActionMigrate            AuditAction = "reconciliation:migrate"
)

// Entity types referenced by audit events.
const (
	EntityEmployee   = "employee"
	EntityDepartment = "department"
	EntitySystem     = "system"
)

// AuditEntity identifies the record an event is about.
type AuditEntity struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// AuditEvent is an append-only record of a mutation.
type AuditEvent struct {
	EventID   string         `json:"eventID"`
	Action    AuditAction    `json:"action"`
	Actor     Actor          `json:"actor"`
	Entity    AuditEntity    `json:"entity"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditCursor is the position of an event in newest-first order. Pages
// continue strictly after it.
type AuditCursor struct {
	CreatedAt time.Time
	EventID   string
}

// CursorOf returns the cursor positioned at ev.
func CursorOf(ev AuditEvent) AuditCursor {
	return AuditCursor{CreatedAt: ev.CreatedAt, EventID: ev.EventID}
}

// After reports whether ev sorts after c in newest-first order.
func (c AuditCursor) After(ev AuditEvent) bool {
	if !ev.CreatedAt.Equal(c.CreatedAt) {
		return ev.CreatedAt.Before(c.CreatedAt)
	}
	return ev.EventID < c.EventID
}

// AuditEventFilter narrows audit listings. Query matches action, actor
// email, entity name and id under normalized comparison.
type AuditEventFilter struct {
	Limit      int
	Query      string
	Action     AuditAction
	EntityType string
	Before     *AuditCursor
}

// ChangeEvent is pushed to live subscribers after a committed write.
type ChangeEvent struct {
	Table string    `json:"table"`
	Op    string    `json:"op"`
	ID    string    `json:"id"`
	At    time.Time `json:"at"`
}
