package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmployeeLevel is the seniority of an employee.
type EmployeeLevel string

const (
	LevelJunior  EmployeeLevel = "junior"
	LevelMid     EmployeeLevel = "mid"
	LevelSenior  EmployeeLevel = "senior"
	LevelManager EmployeeLevel = "manager"
)

// IsValid reports whether l is a known level.
func (l EmployeeLevel) IsValid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior, LevelManager:
		return true
	}
	return false
}

// EmployeeStatus is the employment status.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
)

func (s EmployeeStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// Gender as captured at intake.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Employee is a person record. DepartmentID is the canonical reference;
// DepartmentName is the legacy free-text reference for records created
// before ids existed, and the mirrored display name otherwise. When both
// are present DepartmentID wins.
type Employee struct {
	EmployeeID     string          `json:"employeeID" db:"employee_id"`
	Name           string          `json:"name" db:"name"`
	Email          string          `json:"email" db:"email"`
	TaxID          string          `json:"taxID" db:"tax_id"`
	Phone          string          `json:"phone" db:"phone"`
	Gender         Gender          `json:"gender" db:"gender"`
	PostalCode     string          `json:"postalCode" db:"postal_code"`
	Street         string          `json:"street" db:"street"`
	StreetNumber   string          `json:"streetNumber" db:"street_number"`
	City           string          `json:"city" db:"city"`
	State          string          `json:"state" db:"state"`
	JobTitle       string          `json:"jobTitle" db:"job_title"`
	HireDate       *time.Time      `json:"hireDate,omitempty" db:"hire_date"`
	Level          EmployeeLevel   `json:"level" db:"level"`
	ManagerID      *string         `json:"managerID,omitempty" db:"manager_id"`
	Status         EmployeeStatus  `json:"status" db:"status"`
	BaseSalary     decimal.Decimal `json:"baseSalary" db:"base_salary"`
	DepartmentID   *string         `json:"departmentID,omitempty" db:"department_id"`
	DepartmentName string          `json:"departmentName" db:"department_name"`
	AuditFields
}

// HasDepartmentID reports whether the canonical reference is populated.
func (e Employee) HasDepartmentID() bool {
	return e.DepartmentID != nil && *e.DepartmentID != ""
}

// IsManager reports whether e may be referenced as another employee's manager.
func (e Employee) IsManager() bool {
	return e.Level == LevelManager
}

// EmployeeFilter narrows employee listings. Zero values match everything.
type EmployeeFilter struct {
	Query        string
	Status       EmployeeStatus
	Level        EmployeeLevel
	DepartmentID string
}
