package repositories

import (
	"context"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// DefaultMaxBatchOps bounds the number of staged operations per atomic batch.
const DefaultMaxBatchOps = 450

// WriteBatch stages writes that commit atomically: either every staged
// operation applies or none does. Staging never touches the store.
// An update, delete or counter change that matches no row fails the
// whole batch with apperrors.ErrNotFound.
type WriteBatch interface {
	InsertEmployee(employee domain.Employee)
	UpdateEmployee(employee domain.Employee)
	SetEmployeeDepartment(employeeID string, departmentID string, departmentName string)
	SetEmployeeStatus(employeeID string, status domain.EmployeeStatus)
	DeleteEmployee(employeeID string)

	// IncrementMemberCount adds delta using the store's atomic increment.
	IncrementMemberCount(departmentID string, delta int)
	// SetMemberCount writes an exact value; used only by recounts.
	SetMemberCount(departmentID string, count int)

	// Len returns the number of staged operations.
	Len() int
	Commit(ctx context.Context) error
}

// BatchWriter opens write batches attributed to actorID.
type BatchWriter interface {
	NewBatch(actorID string) WriteBatch
}

// ChangeFeed delivers committed changes to live subscribers. The channel
// is closed when ctx is done.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan domain.ChangeEvent, error)
}
