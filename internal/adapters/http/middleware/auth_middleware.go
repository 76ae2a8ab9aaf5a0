package middleware

import (
	"context"
	"errors"
	"strings"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	localActor     = "actor"
	localSessionID = "sessionID"
)

// TokenValidator resolves an access token to the acting user and session
type TokenValidator interface {
	ValidateToken(ctx context.Context, accessToken string) (domain.Actor, string, error)
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		actor, sessionID, err := validator.ValidateToken(c.Context(), accessToken)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrSessionRevoked):
				return response.Unauthorized(c, "Session has been signed out")
			case errors.Is(err, domain.ErrUserInactive):
				return response.Forbidden(c, "User account is inactive")
			default:
				return response.Unauthorized(c, "Invalid or expired access token")
			}
		}

		c.Locals(localActor, actor)
		c.Locals(localSessionID, sessionID)
		return c.Next()
	}
}

// RequirePermission rejects callers whose role may not perform action
func RequirePermission(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !policy.Can(actor.Role, action) {
			return response.Forbidden(c, "You don't have permission to "+action.String())
		}
		return c.Next()
	}
}

// ActorFrom returns the authenticated caller set by AuthMiddleware
func ActorFrom(c *fiber.Ctx) (domain.Actor, bool) {
	actor, ok := c.Locals(localActor).(domain.Actor)
	return actor, ok
}

// SessionIDFrom returns the session the request's token is bound to
func SessionIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals(localSessionID).(string)
	return id
}

func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}
