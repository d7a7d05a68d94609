package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

func (s *Store) FindEmployeeByID(_ context.Context, employeeID string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[employeeID]
	if !ok {
		return nil, apperrors.NewNotFoundError("employee " + employeeID + " not found")
	}
	return &e, nil
}

func (s *Store) FindEmployeesByIDs(_ context.Context, employeeIDs []string) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(employeeIDs))
	for _, id := range employeeIDs {
		if e, ok := s.employees[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) CountDepartmentReferences(_ context.Context, departmentID string, nameKey string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, e := range s.employees {
		if e.HasDepartmentID() {
			if *e.DepartmentID == departmentID {
				count++
				continue
			}
			if _, ok := s.departments[*e.DepartmentID]; ok {
				continue
			}
		}
		if nameKey != "" && textnorm.Normalize(e.DepartmentName) == nameKey {
			count++
		}
	}
	return count, nil
}
