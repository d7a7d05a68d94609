package domain

// Department groups employees. MemberCount is a denormalized aggregate
// maintained by the reconciliation engine.
type Department struct {
	DepartmentID string  `json:"departmentID" db:"department_id"`
	Name         string  `json:"name" db:"name"`
	MemberCount  int     `json:"memberCount" db:"member_count"`
	ManagerID    *string `json:"managerID,omitempty" db:"manager_id"`
	AuditFields
}
