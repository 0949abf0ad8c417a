package handler

import (
	"github.com/gin-gonic/gin"

	"brokerdesk/internal/service"
)

// StatsHandler handles dashboard endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview handles GET /api/dashboard/overview
// @Summary Client book overview
// @Description Client and policy counts, money totals, breakdowns by product, provider and customer type, policies expiring within 30 days and uploaded document count
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.DashboardOverview} "Overview"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /dashboard/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.Overview(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, overview)
}

// AdminOverview handles GET /api/dashboard/admin
// @Summary Account overview
// @Description User accounts by role and status (admin only)
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.AdminOverview} "Account overview"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 403 {object} ErrorResponseBody "Forbidden - admin only"
// @Security BearerAuth
// @Router /dashboard/admin [get]
func (h *StatsHandler) AdminOverview(c *gin.Context) {
	overview, err := h.statsService.AdminOverview(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, overview)
}
