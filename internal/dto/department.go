package dto

import (
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
)

// --- Department DTOs ---

// CreateDepartmentRequest defines data for creating a department.
// MemberIDs are moved into the new department after it is saved.
type CreateDepartmentRequest struct {
	Name      string   `json:"name" binding:"required,max=120"`
	ManagerID *string  `json:"managerID"`
	MemberIDs []string `json:"memberIDs" binding:"omitempty,dive,required"`
}

// UpdateDepartmentRequest renames a department and/or changes its manager.
// Omitted fields are left untouched; an empty managerID clears the manager.
// MemberIDs are moved into the department, wherever they are now.
type UpdateDepartmentRequest struct {
	Name      *string  `json:"name" binding:"omitempty,max=120"`
	ManagerID *string  `json:"managerID"`
	MemberIDs []string `json:"memberIDs" binding:"omitempty,dive,required"`
}

// MergeDepartmentsRequest moves every member of the path department into the target and deletes the source.
type MergeDepartmentsRequest struct {
	TargetDepartmentID string `json:"targetDepartmentID" binding:"required"`
}

// DepartmentResponse defines data returned for a department.
type DepartmentResponse struct {
	DepartmentID  string    `json:"departmentID"`
	Name          string    `json:"name"`
	MemberCount   int       `json:"memberCount"`
	ManagerID     *string   `json:"managerID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// ToDepartmentResponse converts domain.Department to DTO.
func ToDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID:  d.DepartmentID,
		Name:          d.Name,
		MemberCount:   d.MemberCount,
		ManagerID:     d.ManagerID,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ListDepartmentsResponse wraps a list of departments.
type ListDepartmentsResponse struct {
	Departments []DepartmentResponse `json:"departments"`
}

// ToListDepartmentsResponse converts a slice of domain.Department to DTO.
func ToListDepartmentsResponse(ds []domain.Department) ListDepartmentsResponse {
	list := make([]DepartmentResponse, len(ds))
	for i, d := range ds {
		list[i] = ToDepartmentResponse(&d)
	}
	return ListDepartmentsResponse{Departments: list}
}
