package handlers

import (
	"cardhub/internal/core/services"
	"cardhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler serves the fulfillment dashboard aggregates
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Fulfillment godoc
// @Summary Fulfillment summary
// @Description Request counts grouped by lifecycle status
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /api/v1/dashboard/fulfillment [get]
func (h *DashboardHandler) Fulfillment(c *fiber.Ctx) error {
	summary, err := h.dashboardService.FulfillmentSummary(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load fulfillment summary")
	}
	return response.Success(c, "Fulfillment summary", summary)
}
