package dto

import (
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// EmployeeInput carries every intake field. It is used for create and for
// full updates; the department may be given by id or by name.
type EmployeeInput struct {
	Name           string          `json:"name" binding:"required,max=200"`
	Email          string          `json:"email" binding:"required,email"`
	TaxID          string          `json:"taxID" binding:"required,cpf"`
	Phone          string          `json:"phone" binding:"required,phone_br"`
	Gender         string          `json:"gender" binding:"required,oneof=male female"`
	PostalCode     string          `json:"postalCode"`
	Street         string          `json:"street"`
	StreetNumber   string          `json:"streetNumber"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	JobTitle       string          `json:"jobTitle" binding:"required"`
	HireDate       string          `json:"hireDate" binding:"required,datetime=2006-01-02"`
	Level          string          `json:"level" binding:"required,oneof=junior mid senior manager"`
	ManagerID      string          `json:"managerID"`
	Status         string          `json:"status" binding:"omitempty,oneof=active inactive"`
	BaseSalary     decimal.Decimal `json:"baseSalary"`
	DepartmentID   string          `json:"departmentID"`
	DepartmentName string          `json:"departmentName"`
}

// EmployeeImportRow has the fields of EmployeeInput with the looser rules
// of a CSV row: only name and email are required, everything else is
// checked when present.
type EmployeeImportRow struct {
	Name           string          `json:"name" binding:"required,max=200"`
	Email          string          `json:"email" binding:"required,email"`
	TaxID          string          `json:"taxID" binding:"omitempty,cpf"`
	Phone          string          `json:"phone" binding:"omitempty,phone_br"`
	Gender         string          `json:"gender" binding:"omitempty,oneof=male female"`
	PostalCode     string          `json:"postalCode"`
	Street         string          `json:"street"`
	StreetNumber   string          `json:"streetNumber"`
	City           string          `json:"city"`
	State          string          `json:"state"`
	JobTitle       string          `json:"jobTitle"`
	HireDate       string          `json:"hireDate" binding:"omitempty,datetime=2006-01-02"`
	Level          string          `json:"level" binding:"omitempty,oneof=junior mid senior manager"`
	ManagerID      string          `json:"managerID"`
	Status         string          `json:"status" binding:"omitempty,oneof=active inactive"`
	BaseSalary     decimal.Decimal `json:"baseSalary"`
	DepartmentID   string          `json:"departmentID"`
	DepartmentName string          `json:"departmentName"`
}

// EmployeeResponse defines data returned for an employee, including the
// resolved department.
type EmployeeResponse struct {
	EmployeeID         string                `json:"employeeID"`
	Name               string                `json:"name"`
	Email              string                `json:"email"`
	TaxID              string                `json:"taxID"`
	Phone              string                `json:"phone"`
	Gender             domain.Gender         `json:"gender"`
	PostalCode         string                `json:"postalCode"`
	Street             string                `json:"street"`
	StreetNumber       string                `json:"streetNumber"`
	City               string                `json:"city"`
	State              string                `json:"state"`
	JobTitle           string                `json:"jobTitle"`
	HireDate           string                `json:"hireDate,omitempty"`
	Level              domain.EmployeeLevel  `json:"level"`
	ManagerID          *string               `json:"managerID,omitempty"`
	Status             domain.EmployeeStatus `json:"status"`
	BaseSalary         decimal.Decimal       `json:"baseSalary"`
	DepartmentID       string                `json:"departmentID,omitempty"`
	DepartmentName     string                `json:"departmentName"`
	DepartmentResolved string                `json:"departmentResolution"`
	CreatedAt          time.Time             `json:"createdAt"`
	LastUpdatedAt      time.Time             `json:"lastUpdatedAt"`
}

// ToEmployeeResponse converts domain.Employee to DTO, resolving the
// department through ix.
func ToEmployeeResponse(e *domain.Employee, ix *domain.DepartmentIndex) EmployeeResponse {
	resp := EmployeeResponse{
		EmployeeID:     e.EmployeeID,
		Name:           e.Name,
		Email:          e.Email,
		TaxID:          e.TaxID,
		Phone:          e.Phone,
		Gender:         e.Gender,
		PostalCode:     e.PostalCode,
		Street:         e.Street,
		StreetNumber:   e.StreetNumber,
		City:           e.City,
		State:          e.State,
		JobTitle:       e.JobTitle,
		Level:          e.Level,
		ManagerID:      e.ManagerID,
		Status:         e.Status,
		BaseSalary:     e.BaseSalary,
		DepartmentName: e.DepartmentName,
		CreatedAt:      e.CreatedAt,
		LastUpdatedAt:  e.LastUpdatedAt,
	}
	if e.HireDate != nil {
		resp.HireDate = e.HireDate.Format(DateLayout)
	}
	res := ix.Resolve(*e)
	resp.DepartmentResolved = res.Kind.String()
	if res.IsResolved() {
		resp.DepartmentID = res.DepartmentID
		resp.DepartmentName = ix.NameOf(res.DepartmentID)
	}
	return resp
}

// ListEmployeesParams defines query parameters for listing employees.
type ListEmployeesParams struct {
	Query        string `form:"q"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive"`
	Level        string `form:"level" binding:"omitempty,oneof=junior mid senior manager"`
	DepartmentID string `form:"departmentID"`
}

// ToFilter converts the params into a domain filter.
func (p ListEmployeesParams) ToFilter() domain.EmployeeFilter {
	return domain.EmployeeFilter{
		Query:        p.Query,
		Status:       domain.EmployeeStatus(p.Status),
		Level:        domain.EmployeeLevel(p.Level),
		DepartmentID: p.DepartmentID,
	}
}

// ListEmployeesResponse wraps a list of employees.
type ListEmployeesResponse struct {
	Employees []EmployeeResponse `json:"employees"`
}

// ToListEmployeesResponse converts employees to DTOs.
func ToListEmployeesResponse(es []domain.Employee, ix *domain.DepartmentIndex) ListEmployeesResponse {
	list := make([]EmployeeResponse, len(es))
	for i, e := range es {
		list[i] = ToEmployeeResponse(&e, ix)
	}
	return ListEmployeesResponse{Employees: list}
}

// --- Bulk DTOs ---

// BulkMoveRequest transfers employees to a department.
type BulkMoveRequest struct {
	EmployeeIDs        []string `json:"employeeIDs" binding:"required,min=1,dive,required"`
	TargetDepartmentID string   `json:"targetDepartmentID" binding:"required"`
}

// BulkStatusRequest sets the status of many employees.
type BulkStatusRequest struct {
	EmployeeIDs []string `json:"employeeIDs" binding:"required,min=1,dive,required"`
	Status      string   `json:"status" binding:"required,oneof=active inactive"`
}

// BulkDeleteRequest deletes many employees.
type BulkDeleteRequest struct {
	EmployeeIDs []string `json:"employeeIDs" binding:"required,min=1,dive,required"`
}
