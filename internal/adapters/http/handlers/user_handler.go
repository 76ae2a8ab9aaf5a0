package handlers

import (
	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/services"
	"landreg-portal/internal/pkg/pagination"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management and profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SetActiveRequest toggles an account
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// SetRoleRequest changes an account's role
type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

// BulkRequest selects several accounts
type BulkRequest struct {
	IDs    []string `json:"ids"`
	Active *bool    `json:"active,omitempty"`
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of all users (Admin only)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param search query string false "Username, name or email"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	params := pagination.GetParams(c)

	result, err := h.userService.List(c.Context(), actor, &services.ListUsersInput{
		Page:   params.Page,
		Limit:  params.Limit,
		Search: c.Query("search"),
	})
	if err != nil {
		return writeError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// GetUser handles getting a user by ID (Admin only)
// @Summary Get user by ID
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	user, err := h.userService.Get(c.Context(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// CreateUser handles account creation by an administrator
// @Summary Create user
// @Description Create an active account (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateUserInput true "Account"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.Create(c.Context(), actor, &req)
	if err != nil {
		return writeError(c, err, "Failed to create user")
	}

	return response.Created(c, "User created successfully", user)
}

// UpdateUser handles updating a user (Admin only)
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body services.UpdateUserInput true "Fields to change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.Update(c.Context(), actor, c.Params("id"), &req)
	if err != nil {
		return writeError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", user)
}

// SetActive handles activating or deactivating a user
// @Summary Activate or deactivate user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body SetActiveRequest true "Active flag"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/active [patch]
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return response.BadRequest(c, "active is required")
	}

	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.SetActive(c.Context(), actor, c.Params("id"), *req.Active)
	if err != nil {
		return writeError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", user)
}

// SetRole handles changing a user's role
// @Summary Change user role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param body body SetRoleRequest true "Role"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/role [patch]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	var req SetRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.SetRole(c.Context(), actor, c.Params("id"), req.Role)
	if err != nil {
		return writeError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", user)
}

// DeleteUser handles deleting a user (Admin only)
// @Summary Delete user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	if err := h.userService.Delete(c.Context(), actor, c.Params("id")); err != nil {
		return writeError(c, err, "Failed to delete user")
	}

	return response.Success(c, "User deleted successfully", nil)
}

// BulkSetActive handles activating or deactivating several users
// @Summary Bulk activate or deactivate
// @Description All accounts change or none do
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkRequest true "IDs and active flag"
// @Success 200 {object} response.Response
// @Router /admin/users/bulk/active [post]
func (h *UserHandler) BulkSetActive(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return response.BadRequest(c, "ids and active are required")
	}

	actor, _ := middleware.ActorFrom(c)
	users, err := h.userService.BulkSetActive(c.Context(), actor, req.IDs, *req.Active)
	if err != nil {
		return writeError(c, err, "Failed to update users")
	}

	return response.Success(c, "Users updated successfully", users)
}

// BulkDelete handles deleting several users
// @Summary Bulk delete
// @Description All accounts are removed or none are
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkRequest true "IDs"
// @Success 200 {object} response.Response
// @Router /admin/users/bulk/delete [post]
func (h *UserHandler) BulkDelete(c *fiber.Ctx) error {
	var req BulkRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	n, err := h.userService.BulkDelete(c.Context(), actor, req.IDs)
	if err != nil {
		return writeError(c, err, "Failed to delete users")
	}

	return response.Success(c, "Users deleted successfully", fiber.Map{"deleted": n})
}

// GetProfile handles getting own profile
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	user, err := h.userService.GetProfile(c.Context(), actor)
	if err != nil {
		return writeError(c, err, "Failed to get profile")
	}

	return response.Success(c, "Profile retrieved successfully", user)
}

// UpdateProfile handles updating own profile
// @Summary Update own profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Name and contact details"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.UpdateProfile(c.Context(), actor, &req)
	if err != nil {
		return writeError(c, err, "Failed to update profile")
	}

	return response.Success(c, "Profile updated successfully", user)
}
