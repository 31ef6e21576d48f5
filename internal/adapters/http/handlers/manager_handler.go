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

// ManagerHandler handles the approval-side endpoints
type ManagerHandler struct {
	managerService *services.ManagerService
}

// NewManagerHandler creates a new manager handler
func NewManagerHandler(managerService *services.ManagerService) *ManagerHandler {
	return &ManagerHandler{managerService: managerService}
}

// handleManagerError maps the common manager service errors to responses.
func handleManagerError(c *fiber.Ctx, err error, fallback string) error {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		return response.ValidationFailed(c, vErr.Fields)
	case errors.Is(err, domain.ErrAdvanceNotFound):
		return response.NotFound(c, "Advance request not found")
	case errors.Is(err, domain.ErrNotTeamManager):
		return response.Forbidden(c, "This request belongs to another manager's team")
	case errors.Is(err, domain.ErrRoleNotAllowed):
		return response.Forbidden(c, "Your role cannot perform this action")
	case errors.Is(err, domain.ErrAlreadyProcessed):
		return response.Conflict(c, "This request has already been processed")
	case errors.Is(err, services.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	default:
		return response.InternalServerError(c, fallback)
	}
}

// Dashboard handles the manager dashboard
// @Summary Manager dashboard
// @Description Team stats, team size and recent requests
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /manager/dashboard [get]
func (h *ManagerHandler) Dashboard(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	dashboard, err := h.managerService.Dashboard(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Dashboard retrieved", fiber.Map{
		"stats":          dashboard.Stats,
		"teamSize":       dashboard.TeamSize,
		"recentRequests": models.ToResponses(dashboard.RecentRequests),
	})
}

// PendingApprovals handles the approval queue listing
// @Summary Pending approvals
// @Description Team requests awaiting a decision
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by purpose or requester name"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /manager/pending-approvals [get]
func (h *ManagerHandler) PendingApprovals(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	result, err := h.managerService.PendingApprovals(c.Context(), userID, c.Query("search"), params.Page, params.Limit)
	if err != nil {
		return handleManagerError(c, err, "Failed to list pending approvals")
	}

	return response.Success(c, "Pending approvals retrieved", fiber.Map{
		"advances":   models.ToResponses(result.Advances),
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// RequestDetail handles single team request retrieval
// @Summary Team request detail
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /manager/requests/{id} [get]
func (h *ManagerHandler) RequestDetail(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid advance ID")
	}

	advance, err := h.managerService.RequestDetail(c.Context(), id, userID)
	if err != nil {
		return handleManagerError(c, err, "Failed to fetch request")
	}

	return response.Success(c, "Request retrieved", advance.ToResponse())
}

// Approve handles request approval
// @Summary Approve a pending request
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /manager/requests/{id}/approve [put]
func (h *ManagerHandler) Approve(c *fiber.Ctx) error {
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

	advance, err := h.managerService.Approve(c.Context(), id, userID, role)
	if err != nil {
		return handleManagerError(c, err, "Failed to approve request")
	}

	return response.Success(c, "Request approved", advance.ToResponse())
}

// RejectRequest represents the rejection body
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles request rejection
// @Summary Reject a pending request
// @Tags Manager
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Param body body RejectRequest true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /manager/requests/{id}/reject [put]
func (h *ManagerHandler) Reject(c *fiber.Ctx) error {
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

	var req RejectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	advance, err := h.managerService.Reject(c.Context(), id, userID, role, req.Reason)
	if err != nil {
		return handleManagerError(c, err, "Failed to reject request")
	}

	return response.Success(c, "Request rejected", advance.ToResponse())
}

// TeamRequests handles the full team request listing
// @Summary Team requests
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param search query string false "Search by purpose or requester name"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /manager/team-requests [get]
func (h *ManagerHandler) TeamRequests(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	result, err := h.managerService.TeamRequests(c.Context(), userID, c.Query("status"), c.Query("search"), params.Page, params.Limit)
	if err != nil {
		return handleManagerError(c, err, "Failed to list team requests")
	}

	return response.Success(c, "Team requests retrieved", fiber.Map{
		"advances":   models.ToResponses(result.Advances),
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// TeamMembers handles the team roster listing
// @Summary Team members with advance totals
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /manager/team-members [get]
func (h *ManagerHandler) TeamMembers(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	members, err := h.managerService.TeamMembers(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list team members")
	}

	return response.Success(c, "Team members retrieved", members)
}

// TeamMemberRequests handles one report's request history
// @Summary One team member's requests
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param status query string false "Status filter"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /manager/team-members/{id}/requests [get]
func (h *ManagerHandler) TeamMemberRequests(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	memberID, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	params := pagination.GetParams(c)
	result, err := h.managerService.TeamMemberRequests(c.Context(), userID, memberID, c.Query("status"), params.Page, params.Limit)
	if err != nil {
		return handleManagerError(c, err, "Failed to list member requests")
	}

	return response.Success(c, "Member requests retrieved", fiber.Map{
		"advances":   models.ToResponses(result.Advances),
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// Reports handles the manager report summary
// @Summary Team report summary
// @Description Totals, status breakdown and monthly trends over a date range
// @Tags Manager
// @Produce json
// @Security BearerAuth
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /manager/reports/summary [get]
func (h *ManagerHandler) Reports(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	summary, err := h.managerService.Reports(c.Context(), userID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		return handleManagerError(c, err, "Failed to build report")
	}

	return response.Success(c, "Report retrieved", summary)
}
