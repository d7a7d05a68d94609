package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardSvc) {
	rg.GET("/dashboard", getDashboard(ds))
}

// getDashboard godoc
// @Summary Workforce summary
// @Description Totals by status and gender, members per resolved department (count desc, then name) and the top five departments.
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.DashboardStats
// @Security BearerAuth
// @Router /dashboard [get]
func getDashboard(ds portssvc.DashboardSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := ds.GetDashboard(c.Request.Context())
		if err != nil {
			respondError(c, err, "Failed to build dashboard")
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
