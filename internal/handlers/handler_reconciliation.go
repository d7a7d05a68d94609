package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reconciliationHandler struct {
	engine portssvc.ReconciliationSvcFacade
}

func registerReconciliationRoutes(rg *gin.RouterGroup, engine portssvc.ReconciliationSvcFacade) {
	h := &reconciliationHandler{engine: engine}

	rec := rg.Group("/reconciliation")
	{
		rec.POST("/recount", h.recount)
		rec.GET("/legacy", h.planMigration)
		rec.POST("/legacy/apply", h.applyMigration)
		rec.POST("/departments/:id/adjust", h.adjustCount)
	}
}

// recount godoc
// @Summary Recompute every department member count
// @Description Counts members by resolved department and overwrites stored counters. Safe to run at any time.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} domain.RecountReport
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /reconciliation/recount [post]
func (h *reconciliationHandler) recount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	report, err := h.engine.RecomputeAllCounts(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err, "Failed to recount departments")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Recount finished",
		slog.Int("corrections", len(report.Corrections)),
		slog.Int("unresolved", len(report.Unresolved)))
	c.JSON(http.StatusOK, report)
}

// planMigration godoc
// @Summary Plan the legacy department reference migration
// @Description Lists employees referencing a department only by name, with the department each resolves to.
// @Tags reconciliation
// @Produce json
// @Success 200 {object} domain.MigrationPlan
// @Security BearerAuth
// @Router /reconciliation/legacy [get]
func (h *reconciliationHandler) planMigration(c *gin.Context) {
	plan, err := h.engine.PlanMigration(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to plan migration")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// applyMigration godoc
// @Summary Apply the legacy department reference migration
// @Description Writes canonical ids without changing any member count. With createMissing, unmatched names get new departments first.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body dto.ApplyMigrationRequest false "Plan to apply; omit items to recompute"
// @Success 200 {object} dto.ApplyMigrationResponse
// @Failure 500 {object} dto.PartialBatchResponse
// @Security BearerAuth
// @Router /reconciliation/legacy/apply [post]
func (h *reconciliationHandler) applyMigration(c *gin.Context) {
	var req dto.ApplyMigrationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, err, "Invalid request format")
			return
		}
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	result, created, err := h.engine.ApplyMigration(c.Request.Context(), actor, req.Plan(), req.CreateMissing)
	if err != nil {
		respondError(c, err, "Failed to apply migration")
		return
	}
	if created == nil {
		created = []string{}
	}
	c.JSON(http.StatusOK, dto.ApplyMigrationResponse{Result: *result, CreatedDepartments: created})
}

// adjustCount godoc
// @Summary Apply a manual delta to a department's member count
// @Tags reconciliation
// @Accept json
// @Param id path string true "Department ID"
// @Param request body dto.AdjustCountRequest true "Delta"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/departments/{id}/adjust [post]
func (h *reconciliationHandler) adjustCount(c *gin.Context) {
	var req dto.AdjustCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, err, "Invalid request format")
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if err := h.engine.AdjustCount(c.Request.Context(), actor, c.Param("id"), req.Delta); err != nil {
		respondError(c, err, "Failed to adjust member count")
		return
	}
	c.Status(http.StatusNoContent)
}
