package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type employeeHandler struct {
	employeeService portssvc.EmployeeSvcFacade
}

func newEmployeeHandler(es portssvc.EmployeeSvcFacade) *employeeHandler {
	return &employeeHandler{employeeService: es}
}

func registerEmployeeRoutes(rg *gin.RouterGroup, es portssvc.EmployeeSvcFacade, ts portssvc.DataTransferSvcFacade) {
	h := newEmployeeHandler(es)
	t := newTransferHandler(ts)

	employees := rg.Group("/employees")
	{
		employees.GET("", h.listEmployees)
		employees.POST("", h.createEmployee)
		employees.GET("/managers", h.listManagers)
		employees.GET("/export", t.exportEmployees)
		employees.POST("/import", t.importEmployees)
		employees.GET("/:id", h.getEmployee)
		employees.PUT("/:id", h.updateEmployee)
		employees.DELETE("/:id", h.deleteEmployee)

		bulk := employees.Group("/bulk")
		bulk.POST("/status", h.bulkStatus)
		bulk.POST("/move", h.bulkMove)
		bulk.POST("/delete", h.bulkDelete)
	}
}

// respondEmployees writes es with departments resolved against a fresh index.
func (h *employeeHandler) respondEmployees(c *gin.Context, es []domain.Employee) {
	ix, err := h.employeeService.DepartmentIndex(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve departments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeesResponse(es, ix))
}

func (h *employeeHandler) respondEmployee(c *gin.Context, status int, e *domain.Employee) {
	ix, err := h.employeeService.DepartmentIndex(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to resolve departments")
		return
	}
	c.JSON(status, dto.ToEmployeeResponse(e, ix))
}

// listEmployees godoc
// @Summary List employees
// @Description Filters combine; department filtering uses the resolved department, so legacy members are included.
// @Tags employees
// @Produce json
// @Param q query string false "Text filter (name, email, job title)"
// @Param status query string false "active|inactive"
// @Param level query string false "junior|mid|senior|manager"
// @Param departmentID query string false "Department ID"
// @Success 200 {object} dto.ListEmployeesResponse
// @Security BearerAuth
// @Router /employees [get]
func (h *employeeHandler) listEmployees(c *gin.Context) {
	var params dto.ListEmployeesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, err, "Invalid query parameters")
		return
	}
	es, err := h.employeeService.ListEmployees(c.Request.Context(), params.ToFilter())
	if err != nil {
		respondError(c, err, "Failed to list employees")
		return
	}
	h.respondEmployees(c, es)
}

// listManagers godoc
// @Summary List employees eligible as managers
// @Tags employees
// @Produce json
// @Success 200 {object} dto.ListEmployeesResponse
// @Security BearerAuth
// @Router /employees/managers [get]
func (h *employeeHandler) listManagers(c *gin.Context) {
	es, err := h.employeeService.ListManagers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list managers")
		return
	}
	h.respondEmployees(c, es)
}

// getEmployee godoc
// @Summary Get an employee
// @Tags employees
// @Produce json
// @Param id path string true "Employee ID"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [get]
func (h *employeeHandler) getEmployee(c *gin.Context) {
	e, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve employee")
		return
	}
	h.respondEmployee(c, http.StatusOK, e)
}

// createEmployee godoc
// @Summary Create an employee
// @Description The department may be given by id or name; the member count is updated in the same transaction.
// @Tags employees
// @Accept json
// @Produce json
// @Param employee body dto.EmployeeInput true "Employee"
// @Success 201 {object} dto.EmployeeResponse
// @Failure 400 {object} ValidationErrorResponse
// @Security BearerAuth
// @Router /employees [post]
func (h *employeeHandler) createEmployee(c *gin.Context) {
	var req dto.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	e, err := h.employeeService.CreateEmployee(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create employee")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Employee created", slog.String("employee_id", e.EmployeeID))
	h.respondEmployee(c, http.StatusCreated, e)
}

// updateEmployee godoc
// @Summary Replace an employee's details
// @Tags employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param employee body dto.EmployeeInput true "Employee"
// @Success 200 {object} dto.EmployeeResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [put]
func (h *employeeHandler) updateEmployee(c *gin.Context) {
	var req dto.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	e, err := h.employeeService.UpdateEmployee(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update employee")
		return
	}
	h.respondEmployee(c, http.StatusOK, e)
}

// deleteEmployee godoc
// @Summary Delete an employee
// @Tags employees
// @Param id path string true "Employee ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /employees/{id} [delete]
func (h *employeeHandler) deleteEmployee(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.employeeService.DeleteEmployee(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete employee")
		return
	}
	c.Status(http.StatusNoContent)
}

// bulkStatus godoc
// @Summary Set the status of many employees
// @Tags employees
// @Accept json
// @Produce json
// @Param request body dto.BulkStatusRequest true "Employees and status"
// @Success 200 {object} domain.BulkResult
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /employees/bulk/status [post]
func (h *employeeHandler) bulkStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.employeeService.BulkUpdateStatus(c.Request.Context(), actor, req.EmployeeIDs, domain.EmployeeStatus(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update employee status")
		return
	}
	c.JSON(http.StatusOK, result)
}

// bulkMove godoc
// @Summary Move many employees to a department
// @Description Employees already in the target are skipped; counts are adjusted in the same transaction as each chunk.
// @Tags employees
// @Accept json
// @Produce json
// @Param request body dto.BulkMoveRequest true "Employees and target"
// @Success 200 {object} domain.BulkResult
// @Failure 400 {object} ErrorResponse "Unknown target"
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /employees/bulk/move [post]
func (h *employeeHandler) bulkMove(c *gin.Context) {
	var req dto.BulkMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.employeeService.BulkMove(c.Request.Context(), actor, req.EmployeeIDs, req.TargetDepartmentID)
	if err != nil {
		respondError(c, err, "Failed to move employees")
		return
	}
	c.JSON(http.StatusOK, result)
}

// bulkDelete godoc
// @Summary Delete many employees
// @Tags employees
// @Accept json
// @Produce json
// @Param request body dto.BulkDeleteRequest true "Employees"
// @Success 200 {object} domain.BulkResult
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /employees/bulk/delete [post]
func (h *employeeHandler) bulkDelete(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.employeeService.BulkDelete(c.Request.Context(), actor, req.EmployeeIDs)
	if err != nil {
		respondError(c, err, "Failed to delete employees")
		return
	}
	c.JSON(http.StatusOK, result)
}
