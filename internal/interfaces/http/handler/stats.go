package handler

import (
	"github.com/gin-gonic/gin"
)

// StatsHandler serves the admin dashboard counters
type StatsHandler struct {
	BaseHandler
	statsService StatsService
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard godoc
// @Summary      Dashboard statistics
// @Description  Revenue of committed orders, order count, pending product requests and low-stock products
// @Tags         admin
// @Produce      json
// @Success      200 {object} APIResponse[reportapp.DashboardStats]
// @Failure      403 {object} ErrorResponse
// @Security     SessionCookie
// @Router       /admin/stats [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
