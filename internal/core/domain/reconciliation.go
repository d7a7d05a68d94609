package domain

// BulkResult summarizes a chunked multi-record operation.
type BulkResult struct {
	Requested int `json:"requested"`
	Applied   int `json:"applied"`
	Skipped   int `json:"skipped"`
	Missing   int `json:"missing"`
	Chunks    int `json:"chunks"`
}

// CountCorrection is one drift repair made by a recount.
type CountCorrection struct {
	DepartmentID string `json:"departmentID"`
	Name         string `json:"name"`
	Stored       int    `json:"stored"`
	Actual       int    `json:"actual"`
}

// RecountReport summarizes RecomputeAllCounts.
type RecountReport struct {
	Departments int               `json:"departments"`
	Employees   int               `json:"employees"`
	Legacy      int               `json:"legacy"`
	Unresolved  []string          `json:"unresolved"`
	Corrections []CountCorrection `json:"corrections"`
}

// MigrationItem moves one legacy reference to a canonical id.
type MigrationItem struct {
	EmployeeID     string `json:"employeeID"`
	LegacyName     string `json:"legacyName"`
	DepartmentID   string `json:"departmentID"`
	DepartmentName string `json:"departmentName"`
}

// MigrationPlan lists the legacy references that resolve to a department.
// Unmatched references are reported but never planned.
type MigrationPlan struct {
	Total        int             `json:"total"`
	Legacy       int             `json:"legacy"`
	Items        []MigrationItem `json:"items"`
	Unmatched    int             `json:"unmatched"`
	UnmatchedIDs []string        `json:"unmatchedIDs"`
}

// DepartmentTally is one row of the dashboard breakdown.
type DepartmentTally struct {
	DepartmentID string `json:"departmentID,omitempty"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
}

// DashboardStats summarizes the workforce.
type DashboardStats struct {
	Total          int               `json:"total"`
	Active         int               `json:"active"`
	Inactive       int               `json:"inactive"`
	Male           int               `json:"male"`
	Female         int               `json:"female"`
	Departments    int               `json:"departments"`
	Unresolved     int               `json:"unresolved"`
	ByDepartment   []DepartmentTally `json:"byDepartment"`
	TopDepartments []DepartmentTally `json:"topDepartments"`
}

// ImportRowError reports why a CSV row was rejected. Line is 1-based and
// counts the header.
type ImportRowError struct {
	Line   int      `json:"line"`
	Errors []string `json:"errors"`
}

// ImportReport summarizes a CSV import.
type ImportReport struct {
	Rows               int              `json:"rows"`
	Imported           int              `json:"imported"`
	Rejected           []ImportRowError `json:"rejected"`
	CreatedDepartments []string         `json:"createdDepartments"`
	DryRun             bool             `json:"dryRun"`
}
