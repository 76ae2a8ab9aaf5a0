package handlers

import (
	"time"

	"landreg-portal/internal/adapters/http/middleware"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/services"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		cfg:         cfg,
	}
}

// ChangePasswordRequest represents change password request body
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register handles self-registration
// @Summary Register new user
// @Description Create an account that stays inactive until an administrator approves it
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.Register(c.Context(), &req)
	if err != nil {
		return writeError(c, err, "Failed to register user")
	}

	return response.Created(c, "Account created. An administrator must activate it before you can sign in", user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	result, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return writeError(c, err, "Failed to login")
	}

	h.setAuthCookie(c, result.AccessToken)

	return response.Success(c, "Login successful", result)
}

// Logout handles user logout
// @Summary Logout user
// @Description Revoke the current session
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Context(), middleware.SessionIDFrom(c)); err != nil {
		return writeError(c, err, "Failed to logout")
	}

	h.clearAuthCookie(c)

	return response.Success(c, "Logout successful", nil)
}

// LogoutAll signs the caller out everywhere
// @Summary Logout from all devices
// @Description Revoke every open session of the current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	n, err := h.authService.LogoutAll(c.Context(), actor.UserID)
	if err != nil {
		return writeError(c, err, "Failed to logout")
	}

	h.clearAuthCookie(c)

	return response.Success(c, "All sessions signed out", fiber.Map{"sessions": n})
}

// Me returns the current user
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	user, err := h.userService.GetProfile(c.Context(), actor)
	if err != nil {
		return writeError(c, err, "Failed to get user info")
	}
	return response.Success(c, "User info retrieved", user)
}

// ChangePassword handles password change for the signed-in user
// @Summary Change password
// @Description Replace the password after confirming the current one; signs out every session
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangePasswordRequest true "Passwords"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor, _ := middleware.ActorFrom(c)
	err := h.authService.ResetPassword(c.Context(), &services.ResetPasswordInput{
		Username:        actor.Username,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		return writeError(c, err, "Failed to change password")
	}

	h.clearAuthCookie(c)

	return response.Success(c, "Password changed, please sign in again", nil)
}

// ForgotPassword starts password recovery
// @Summary Request a password recovery link
// @Description Always answers the same way whether or not an account matched
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RecoveryInput true "Email and contact number"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req services.RecoveryInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.RequestRecoveryLink(c.Context(), &req); err != nil {
		return writeError(c, err, "Failed to request recovery link")
	}

	return response.Success(c, "If the details match an account, a recovery link has been sent", nil)
}

// ResetPassword completes password recovery
// @Summary Reset password with a recovery token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.CompleteRecoveryInput true "Token and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req services.CompleteRecoveryInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.authService.CompleteRecovery(c.Context(), &req); err != nil {
		return writeError(c, err, "Failed to reset password")
	}

	return response.Success(c, "Password has been reset", nil)
}

// setAuthCookie sets the access token cookie
func (h *AuthHandler) setAuthCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearAuthCookie clears the access token cookie
func (h *AuthHandler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   h.cfg.IsProd(),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
