package dto

import "time"

// Export formats.
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

// ExportParams selects the export format and narrows the exported rows.
type ExportParams struct {
	ListEmployeesParams
	Format string `form:"format,default=csv" binding:"oneof=csv xlsx"`
}

// ImportParams are the query options of a CSV import.
type ImportParams struct {
	CreateMissing bool `form:"createMissing"`
	DryRun        bool `form:"dryRun"`
}

// ExportFileName returns the download name for an export taken at t.
func ExportFileName(t time.Time, ext string) string {
	return "colaboradores_" + t.Format(DateLayout) + "." + ext
}

// DepartmentExportFileName returns the download name for a department
// listing taken at t.
func DepartmentExportFileName(t time.Time) string {
	return "departamentos_" + t.Format(DateLayout) + "." + ExportCSV
}
