package handlers

import (
	"errors"
	"strconv"

	"advancehub/internal/adapters/persistence/models"
	"advancehub/internal/core/domain"
	"advancehub/internal/core/services"
	"advancehub/internal/pkg/pagination"
	"advancehub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdvanceHandler handles the owner-facing advance endpoints
type AdvanceHandler struct {
	advanceService *services.AdvanceService
}

// NewAdvanceHandler creates a new advance handler
func NewAdvanceHandler(advanceService *services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: advanceService}
}

func userIDFromCtx(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

func roleFromCtx(c *fiber.Ctx) (domain.Role, bool) {
	role, ok := c.Locals("role").(string)
	return domain.Role(role), ok
}

func paramID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// Create handles advance request submission
// @Summary Submit a cash advance request
// @Description Create a new advance request in the pending state
// @Tags Advances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAdvanceInput true "Advance request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /advances [post]
func (h *AdvanceHandler) Create(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.CreateAdvanceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	advance, err := h.advanceService.Create(c.Context(), &input, userID)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields)
		case errors.Is(err, services.ErrUserNotFound):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to create advance request")
		}
	}

	return response.Created(c, "Advance request submitted", advance.ToResponse())
}

// List handles the caller's advance listing
// @Summary List my advance requests
// @Description List the caller's advance requests with status filter, sorting and pagination
// @Tags Advances
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param sort query string false "Sort key, prefix with - for descending"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /advances/my-requests [get]
func (h *AdvanceHandler) List(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListInput{
		Status: c.Query("status"),
		Sort:   c.Query("sort"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	result, err := h.advanceService.ListOwned(c.Context(), userID, input)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return response.ValidationFailed(c, vErr.Fields)
		}
		return response.InternalServerError(c, "Failed to list advance requests")
	}

	return response.Success(c, "Advance requests retrieved", fiber.Map{
		"advances":   models.ToResponses(result.Advances),
		"pagination": pagination.GetMeta(params, result.Total),
	})
}

// Get handles single advance retrieval
// @Summary Get one of my advance requests
// @Description Fetch a single advance request owned by the caller
// @Tags Advances
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /advances/my-requests/{id} [get]
func (h *AdvanceHandler) Get(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid advance ID")
	}

	advance, err := h.advanceService.GetOwned(c.Context(), id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAdvanceNotFound) {
			return response.NotFound(c, "Advance request not found")
		}
		return response.InternalServerError(c, "Failed to fetch advance request")
	}

	return response.Success(c, "Advance request retrieved", advance.ToResponse())
}

// Retire handles advance retirement
// @Summary Retire an advance
// @Description Attach expense records to an approved or disbursed advance and close it
// @Tags Advances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Advance ID"
// @Param body body services.RetireInput true "Retirement details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /advances/{id}/retire [put]
func (h *AdvanceHandler) Retire(c *fiber.Ctx) error {
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

	var input services.RetireInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	advance, err := h.advanceService.Retire(c.Context(), id, userID, role, &input)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields)
		case errors.Is(err, domain.ErrAdvanceNotFound):
			return response.NotFound(c, "Advance request not found")
		case errors.Is(err, domain.ErrRoleNotAllowed):
			return response.Forbidden(c, "Only the requesting staff member can retire an advance")
		case errors.Is(err, domain.ErrNotRetirable):
			return response.Conflict(c, "Advance cannot be retired in its current status")
		default:
			return response.InternalServerError(c, "Failed to retire advance")
		}
	}

	return response.Success(c, "Advance retired successfully", advance.ToResponse())
}

// Stats handles staff dashboard stats
// @Summary My advance totals
// @Description Aggregate the caller's advances by lifecycle state
// @Tags Advances
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /advances/staff/stats [get]
func (h *AdvanceHandler) Stats(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	stats, err := h.advanceService.Stats(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch stats")
	}

	return response.Success(c, "Stats retrieved", stats)
}

// Recent handles the staff dashboard recent list
// @Summary My recent advance requests
// @Tags Advances
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of items (max 20)"
// @Success 200 {object} response.Response
// @Router /advances/staff/recent [get]
func (h *AdvanceHandler) Recent(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	limit, _ := strconv.Atoi(c.Query("limit", "5"))
	advances, err := h.advanceService.Recent(c.Context(), userID, limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch recent requests")
	}

	return response.Success(c, "Recent requests retrieved", models.ToResponses(advances))
}

// Pending handles the staff dashboard pending list
// @Summary My pending advance requests
// @Tags Advances
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /advances/staff/pending [get]
func (h *AdvanceHandler) Pending(c *fiber.Ctx) error {
	userID, ok := userIDFromCtx(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	advances, err := h.advanceService.Pending(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch pending requests")
	}

	return response.Success(c, "Pending requests retrieved", models.ToResponses(advances))
}
