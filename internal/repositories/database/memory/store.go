// Package memory is an in-process store implementing the repository
// ports. Batches commit atomically under a single lock and committed
// changes are broadcast to change feed subscribers.
package memory

import (
	"sync"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
)

// Store holds every collection in memory.
type Store struct {
	mu          sync.RWMutex
	departments map[string]domain.Department
	employees   map[string]domain.Employee
	users       map[string]domain.User
	events      []domain.AuditEvent
	subscribers map[int]chan domain.ChangeEvent
	nextSubID   int
	now         func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		departments: make(map[string]domain.Department),
		employees:   make(map[string]domain.Employee),
		users:       make(map[string]domain.User),
		subscribers: make(map[int]chan domain.ChangeEvent),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositoryProvider exposes s through every repository port.
func NewRepositoryProvider(s *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		DepartmentRepo: s,
		EmployeeRepo:   s,
		AuditLogRepo:   s,
		UserRepo:       s,
		Batches:        s,
		Changes:        s,
	}
}

var (
	_ portsrepo.DepartmentRepositoryFacade = (*Store)(nil)
	_ portsrepo.EmployeeRepositoryFacade   = (*Store)(nil)
	_ portsrepo.AuditLogRepositoryFacade   = (*Store)(nil)
	_ portsrepo.UserRepositoryFacade       = (*Store)(nil)
	_ portsrepo.BatchWriter                = (*Store)(nil)
	_ portsrepo.ChangeFeed                 = (*Store)(nil)
)
