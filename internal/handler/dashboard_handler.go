package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
)

// DashboardHandler handles the interviewer analytics endpoint.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboardData godoc
// GET /api/v1/analytics
// Returns totals, average score, per-difficulty averages, the score
// distribution and the top performers.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	response.Success(c, http.StatusOK, h.dashboardService.GetDashboardData())
}
