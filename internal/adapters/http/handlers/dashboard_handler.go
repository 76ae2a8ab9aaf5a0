package handlers

import (
	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/core/policy"
	"landreg-portal/internal/core/services"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the caller's dashboard
// @Summary Dashboard
// @Description Status counts and recent registrations visible to the caller; administrators also get account counts
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	data, err := h.dashboardService.Get(c.Context(), actor)
	if err != nil {
		return writeError(c, err, "Failed to get dashboard")
	}

	return response.Success(c, "Dashboard retrieved successfully", data)
}

// PolicyRule is one row of the permission table
type PolicyRule struct {
	Role    string `json:"role"`
	Action  string `json:"action"`
	Allowed bool   `json:"allowed"`
}

// GetPolicy returns the permission table
// @Summary Permission table
// @Description Every role/action decision the portal enforces
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Router /policy [get]
func (h *DashboardHandler) GetPolicy(c *fiber.Ctx) error {
	rules := policy.Table()
	out := make([]PolicyRule, len(rules))
	for i, r := range rules {
		out[i] = PolicyRule{Role: string(r.Role), Action: r.Action.String(), Allowed: r.Allowed}
	}
	return response.Success(c, "Policy retrieved successfully", out)
}
