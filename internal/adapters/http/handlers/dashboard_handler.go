package handlers

import (
	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/services"
	"advancehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the admin overview endpoint
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// AdminOverview handles the admin dashboard
// @Summary Admin dashboard
// @Description Organisation-wide user and advance figures
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) AdminOverview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.AdminOverview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved", fiber.Map{
		"usersByRole":    overview.UsersByRole,
		"advanceStats":   overview.AdvanceStats,
		"recentRequests": models.ToResponses(overview.RecentRequests),
	})
}
