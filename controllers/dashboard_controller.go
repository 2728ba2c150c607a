// File: /controllers/dashboard_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fleettrack-api/services"
)

type DashboardController struct {
	dashboard *services.DashboardService
}

func NewDashboardController(dashboard *services.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetKPIs returns the cached dashboard counters
func (dc *DashboardController) GetKPIs(c *gin.Context) {
	c.JSON(http.StatusOK, dc.dashboard.Snapshot())
}
