package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

func (s *Store) FindDepartmentByID(_ context.Context, departmentID string) (*domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[departmentID]
	if !ok {
		return nil, apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	return &d, nil
}

func (s *Store) ListDepartments(_ context.Context) ([]domain.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Department, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].DepartmentID < out[j].DepartmentID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// nameTakenLocked reports whether another department already uses name's key.
func (s *Store) nameTakenLocked(name, exceptID string) bool {
	key := textnorm.Normalize(name)
	for id, d := range s.departments {
		if id != exceptID && textnorm.Normalize(d.Name) == key {
			return true
		}
	}
	return false
}

func (s *Store) SaveDepartment(_ context.Context, department domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.departments[department.DepartmentID]; exists {
		return apperrors.NewConflictError("department ID " + department.DepartmentID + " already exists")
	}
	if s.nameTakenLocked(department.Name, "") {
		return apperrors.ErrDuplicateName
	}
	s.departments[department.DepartmentID] = department
	s.broadcastLocked(tableDepartments, opInsert, department.DepartmentID)
	return nil
}

func (s *Store) UpdateDepartment(_ context.Context, department domain.Department) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.departments[department.DepartmentID]
	if !ok {
		return apperrors.NewNotFoundError("department " + department.DepartmentID + " not found")
	}
	if s.nameTakenLocked(department.Name, department.DepartmentID) {
		return apperrors.ErrDuplicateName
	}
	current.Name = department.Name
	current.ManagerID = department.ManagerID
	current.LastUpdatedAt = department.LastUpdatedAt
	current.LastUpdatedBy = department.LastUpdatedBy
	s.departments[department.DepartmentID] = current
	s.broadcastLocked(tableDepartments, opUpdate, department.DepartmentID)
	return nil
}

func (s *Store) DeleteDepartment(_ context.Context, departmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[departmentID]; !ok {
		return apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	delete(s.departments, departmentID)
	s.broadcastLocked(tableDepartments, opDelete, departmentID)
	return nil
}

func (s *Store) AdjustMemberCount(_ context.Context, departmentID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.departments[departmentID]
	if !ok {
		return apperrors.NewNotFoundError("department " + departmentID + " not found")
	}
	d.MemberCount += delta
	s.departments[departmentID] = d
	s.broadcastLocked(tableDepartments, opUpdate, departmentID)
	return nil
}
