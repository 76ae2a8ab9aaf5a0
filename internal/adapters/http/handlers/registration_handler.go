package handlers

import (
	"strings"

	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/services"
	"landreg-portal/internal/pkg/pagination"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler handles registration endpoints
type RegistrationHandler struct {
	registrations *services.GuardedRegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrations *services.GuardedRegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// UpdateStatusRequest records a review decision
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
	Notes  string        `json:"notes"`
}

// ListRegistrations lists the registrations visible to the caller
// @Summary List registrations
// @Description Own registrations for most roles; Admin and Head see all
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search id, applicant name or town"
// @Param status query string false "Status filter"
// @Param type query string false "Land, Development or Building"
// @Param sort query string false "id, applicant, town, sizeAcres, submissionDate or status"
// @Param order query string false "asc or desc" default(asc)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} pagination.Response
// @Failure 403 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /registrations [get]
func (h *RegistrationHandler) ListRegistrations(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	query := services.ListQuery{
		Term:   c.Query("q"),
		Status: domain.Status(c.Query("status")),
		Type:   domain.RegistrationType(c.Query("type")),
		SortBy: services.ParseSortField(c.Query("sort")),
		Desc:   strings.EqualFold(c.Query("order"), "desc"),
	}

	regs, err := h.registrations.Search(c.Context(), actor, query)
	if err != nil {
		return writeError(c, err, "Failed to list registrations")
	}

	params := pagination.GetParams(c)
	return c.JSON(pagination.NewResponse(pagination.Slice(regs, params), params, int64(len(regs))))
}

// GetRegistration returns one registration
// @Summary Get registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID, e.g. LND-2025-001"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) GetRegistration(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	reg, err := h.registrations.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err, "Failed to get registration")
	}

	return response.Success(c, "Registration retrieved successfully", reg)
}

// CreateRegistration files a new application
// @Summary Create registration
// @Description Validates the application and assigns a PREFIX-YEAR-SEQ id
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body domain.RegistrationDraft true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /registrations [post]
func (h *RegistrationHandler) CreateRegistration(c *fiber.Ctx) error {
	var draft domain.RegistrationDraft
	if err := c.BodyParser(&draft); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	reg, err := h.registrations.Create(c.Context(), actor, &draft)
	if err != nil {
		return writeError(c, err, "Failed to create registration")
	}

	return response.Created(c, "Registration submitted successfully", reg)
}

// UpdateStatus records a review decision
// @Summary Update registration status
// @Description Any status may follow any other; notes are required
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param body body UpdateStatusRequest true "Status and notes"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /registrations/{id}/status [patch]
func (h *RegistrationHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	reg, err := h.registrations.UpdateStatus(c.Context(), actor, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return writeError(c, err, "Failed to update status")
	}

	return response.Success(c, "Status updated successfully", reg)
}

// DeleteRegistration removes a registration
// @Summary Delete registration
// @Tags Registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) DeleteRegistration(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	id := c.Params("id")

	ok, err := h.registrations.Delete(c.Context(), actor, id)
	if err != nil {
		return writeError(c, err, "Failed to delete registration")
	}
	if !ok {
		return response.NotFound(c, "Registration not found")
	}

	return response.Success(c, "Registration deleted successfully", fiber.Map{"id": id})
}

// FormatGhanaCard normalises a Ghana Card number as the intake form does
// @Summary Format Ghana Card number
// @Tags Registrations
// @Produce json
// @Param input query string true "Digits as typed"
// @Success 200 {object} response.Response
// @Router /ghana-card/format [get]
func (h *RegistrationHandler) FormatGhanaCard(c *fiber.Ctx) error {
	formatted := domain.FormatGhanaCard(c.Query("input"))
	return response.Success(c, "Formatted", fiber.Map{
		"formatted": formatted,
		"valid":     domain.ValidGhanaCard(formatted),
	})
}
