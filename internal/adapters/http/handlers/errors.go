package handlers

import (
	"errors"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error onto the response envelope. fallback is
// shown for unexpected errors so internals never leak.
func writeError(c *fiber.Ctx, err error, fallback string) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return response.ValidationFailed(c, "Validation failed", verr.Fields)
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrTransient):
		c.Set(fiber.HeaderRetryAfter, "1")
		return response.ServiceUnavailable(c, "Service temporarily unavailable, please retry")
	default:
		return response.InternalServerError(c, fallback)
	}
}
