package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type departmentHandler struct {
	departmentService portssvc.DepartmentSvcFacade
}

func newDepartmentHandler(ds portssvc.DepartmentSvcFacade) *departmentHandler {
	return &departmentHandler{departmentService: ds}
}

func registerDepartmentRoutes(rg *gin.RouterGroup, ds portssvc.DepartmentSvcFacade, ts portssvc.DataTransferSvcFacade) {
	h := newDepartmentHandler(ds)
	t := newTransferHandler(ts)

	departments := rg.Group("/departments")
	{
		departments.GET("", h.listDepartments)
		departments.POST("", h.createDepartment)
		departments.GET("/export", t.exportDepartments)
		departments.GET("/:id", h.getDepartment)
		departments.PUT("/:id", h.updateDepartment)
		departments.DELETE("/:id", h.deleteDepartment)
		departments.POST("/:id/merge", h.mergeDepartment)
	}
}

// listDepartments godoc
// @Summary List departments
// @Description Lists departments ordered by name. q filters by normalized name.
// @Tags departments
// @Produce json
// @Param q query string false "Name filter"
// @Success 200 {object} dto.ListDepartmentsResponse
// @Security BearerAuth
// @Router /departments [get]
func (h *departmentHandler) listDepartments(c *gin.Context) {
	deps, err := h.departmentService.ListDepartments(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to list departments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListDepartmentsResponse(deps))
}

// getDepartment godoc
// @Summary Get a department
// @Tags departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /departments/{id} [get]
func (h *departmentHandler) getDepartment(c *gin.Context) {
	dep, err := h.departmentService.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve department")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentResponse(dep))
}

// createDepartment godoc
// @Summary Create a department
// @Description Names are unique under case and accent folding. memberIDs are moved into the new department.
// @Tags departments
// @Accept json
// @Produce json
// @Param department body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /departments [post]
func (h *departmentHandler) createDepartment(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	dep, err := h.departmentService.CreateDepartment(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "Failed to create department")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Department created", slog.String("department_id", dep.DepartmentID))
	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(dep))
}

// updateDepartment godoc
// @Summary Rename a department or change its manager
// @Description memberIDs are moved into the department from wherever they are.
// @Tags departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param department body dto.UpdateDepartmentRequest true "Changes"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Duplicate name"
// @Security BearerAuth
// @Router /departments/{id} [put]
func (h *departmentHandler) updateDepartment(c *gin.Context) {
	var req dto.UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	dep, err := h.departmentService.UpdateDepartment(c.Request.Context(), actor, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update department")
		return
	}
	c.JSON(http.StatusOK, dto.ToDepartmentResponse(dep))
}

// deleteDepartment godoc
// @Summary Delete an empty department
// @Description Fails with 409 while any employee references the department by id or legacy name.
// @Tags departments
// @Param id path string true "Department ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Department not empty"
// @Security BearerAuth
// @Router /departments/{id} [delete]
func (h *departmentHandler) deleteDepartment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.departmentService.DeleteDepartment(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete department")
		return
	}
	c.Status(http.StatusNoContent)
}

// mergeDepartment godoc
// @Summary Merge a department into another
// @Description Moves every member of the path department into the target, then deletes the source.
// @Tags departments
// @Accept json
// @Produce json
// @Param id path string true "Source department ID"
// @Param merge body dto.MergeDepartmentsRequest true "Target"
// @Success 200 {object} domain.BulkResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /departments/{id}/merge [post]
func (h *departmentHandler) mergeDepartment(c *gin.Context) {
	var req dto.MergeDepartmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, err := h.departmentService.MergeDepartments(c.Request.Context(), actor, c.Param("id"), req.TargetDepartmentID)
	if err != nil {
		respondError(c, err, "Failed to merge departments")
		return
	}
	c.JSON(http.StatusOK, result)
}
