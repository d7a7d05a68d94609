package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds an uploaded CSV.
const maxImportSize = 10 << 20

var exportContentTypes = map[string]string{
	dto.ExportCSV:  "text/csv; charset=utf-8",
	dto.ExportXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

type transferHandler struct {
	transferService portssvc.DataTransferSvcFacade
	now             func() time.Time
}

func newTransferHandler(ts portssvc.DataTransferSvcFacade) *transferHandler {
	return &transferHandler{transferService: ts, now: time.Now}
}

// importEmployees godoc
// @Summary Import employees from CSV
// @Description Accepts `;` or `,` delimited files with pt-BR or English headers. Invalid rows are reported and skipped.
// @Tags employees
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param createMissing query bool false "Create departments that do not exist"
// @Param dryRun query bool false "Validate without writing"
// @Success 200 {object} domain.ImportReport
// @Failure 400 {object} ValidationErrorResponse
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /employees/import [post]
func (h *transferHandler) importEmployees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ImportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file is required in the 'file' field"})
		return
	}
	file, err := header.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	report, err := h.transferService.ImportEmployees(c.Request.Context(), actor, file, portssvc.ImportOptions{
		CreateMissing: params.CreateMissing,
		DryRun:        params.DryRun,
	})
	if err != nil {
		respondError(c, err, "Failed to import employees")
		return
	}
	logger.Info("Employee import finished",
		slog.String("file", header.Filename),
		slog.Int("rows", report.Rows),
		slog.Int("imported", report.Imported),
		slog.Int("rejected", len(report.Rejected)),
		slog.Bool("dry_run", report.DryRun))
	c.JSON(http.StatusOK, report)
}

// exportEmployees godoc
// @Summary Export employees
// @Description CSV is UTF-8 with BOM, `;` delimited and fully quoted. Filters match the list endpoint.
// @Tags employees
// @Produce octet-stream
// @Param format query string false "csv|xlsx" default(csv)
// @Param q query string false "Text filter"
// @Param status query string false "active|inactive"
// @Param level query string false "junior|mid|senior|manager"
// @Param departmentID query string false "Department ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /employees/export [get]
func (h *transferHandler) exportEmployees(c *gin.Context) {
	var params dto.ExportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}

	var buf bytes.Buffer
	var err error
	switch params.Format {
	case dto.ExportXLSX:
		err = h.transferService.ExportXLSX(c.Request.Context(), &buf, params.ToFilter())
	default:
		params.Format = dto.ExportCSV
		err = h.transferService.ExportCSV(c.Request.Context(), &buf, params.ToFilter())
	}
	if err != nil {
		respondError(c, err, "Failed to export employees")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+dto.ExportFileName(h.now(), params.Format)+`"`)
	c.Data(http.StatusOK, exportContentTypes[params.Format], buf.Bytes())
}

// exportDepartments godoc
// @Summary Export departments
// @Description Every department with its member count as CSV (UTF-8 with BOM, `;` delimited, fully quoted).
// @Tags departments
// @Produce octet-stream
// @Success 200 {file} file
// @Security BearerAuth
// @Router /departments/export [get]
func (h *transferHandler) exportDepartments(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.transferService.ExportDepartmentsCSV(c.Request.Context(), &buf); err != nil {
		respondError(c, err, "Failed to export departments")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+dto.DepartmentExportFileName(h.now())+`"`)
	c.Data(http.StatusOK, exportContentTypes[dto.ExportCSV], buf.Bytes())
}
