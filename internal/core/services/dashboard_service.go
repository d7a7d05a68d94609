package services

import (
	"context"
	"sort"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

const topDepartments = 5

type dashboardService struct {
	BaseService
	departmentRepo portsrepo.DepartmentReader
	employeeRepo   portsrepo.EmployeeReader
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(departmentRepo portsrepo.DepartmentReader, employeeRepo portsrepo.EmployeeReader) portssvc.DashboardSvc {
	return &dashboardService{
		BaseService:    BaseService{component: "dashboard"},
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
	}
}

// GetDashboard computes totals from a snapshot. Department tallies come
// from resolution, not from stored counters, so they are exact even when
// counters drift.
func (s *dashboardService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	ix := domain.NewDepartmentIndex(deps)

	stats := &domain.DashboardStats{
		Total:       len(employees),
		Departments: len(deps),
	}
	for _, e := range employees {
		switch e.Status {
		case domain.StatusActive:
			stats.Active++
		case domain.StatusInactive:
			stats.Inactive++
		}
		switch e.Gender {
		case domain.GenderMale:
			stats.Male++
		case domain.GenderFemale:
			stats.Female++
		}
	}

	counts, unresolved := ix.CountMembers(employees)
	stats.Unresolved = len(unresolved)
	stats.ByDepartment = make([]domain.DepartmentTally, 0, len(deps))
	for _, d := range ix.Departments() {
		stats.ByDepartment = append(stats.ByDepartment, domain.DepartmentTally{
			DepartmentID: d.DepartmentID,
			Name:         d.Name,
			Count:        counts[d.DepartmentID],
		})
	}
	sort.SliceStable(stats.ByDepartment, func(i, j int) bool {
		a, b := stats.ByDepartment[i], stats.ByDepartment[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return textnorm.Normalize(a.Name) < textnorm.Normalize(b.Name)
	})
	stats.TopDepartments = stats.ByDepartment[:min(topDepartments, len(stats.ByDepartment))]
	return stats, nil
}
