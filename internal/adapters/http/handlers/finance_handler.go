package handlers

import (
	"errors"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/domain"
	"advancehub/internal/core/services"
	"advancehub/internal/pkg/pagination"
	"advancehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FinanceHandler handles the disbursement endpoints
type FinanceHandler struct {
	financeService *services.FinanceService
}

// NewFinanceHandler creates a new finance handler
func NewFinanceHandler(financeService *services.FinanceService) *FinanceHandler {
	return &FinanceHandler{financeService: financeService}
}

// Dashboard handles the finance dashboard
// @Summary Finance dashboard
// @Description Organisation-wide stats plus the disbursement queue
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /finance/dashboard [get]
func (h *FinanceHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.financeService.Dashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved", fiber.Map{
		"stats":            dashboard.Stats,
		"awaitingPayment":  models.ToResponses(dashboard.AwaitingPayment),
		"recentDisbursals": models.ToResponses(dashboard.RecentDisbursals),
	})
}

// List handles the org-wide advance listing
// @Summary List all advance requests
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /finance/requests [get]
func (h *FinanceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	result, err := h.financeService.ListByStatus(c.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return response.ValidationFailed(c, vErr.Fields)
		}
		return response.InternalServerError(c, "Failed to list requests")
	}

	return response.Success(c, "Requests retrieved", fiber.Map{
		"advances":   models.ToResponses(result.Advances),
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// Get handles single advance retrieval for the finance view
// @Summary Request detail
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /finance/requests/{id} [get]
func (h *FinanceHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid advance ID")
	}

	advance, err := h.financeService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAdvanceNotFound) {
			return response.NotFound(c, "Advance request not found")
		}
		return response.InternalServerError(c, "Failed to fetch request")
	}

	return response.Success(c, "Request retrieved", advance.ToResponse())
}

// Disburse handles payout recording
// @Summary Disburse an advance
// @Description Record a payout against a pending or approved advance
// @Tags Finance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /finance/requests/{id}/disburse [put]
func (h *FinanceHandler) Disburse(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, ok := roleFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid advance ID")
	}

	advance, err := h.financeService.Disburse(c.Context(), id, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAdvanceNotFound):
			return response.NotFound(c, "Advance request not found")
		case errors.Is(err, domain.ErrRoleNotAllowed):
			return response.Forbidden(c, "Only finance can record disbursements")
		case errors.Is(err, domain.ErrAlreadyProcessed):
			return response.Conflict(c, "This request cannot be disbursed in its current status")
		default:
			return response.InternalServerError(c, "Failed to disburse advance")
		}
	}

	return response.Success(c, "Advance disbursed", advance.ToResponse())
}
