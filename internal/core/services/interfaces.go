package services

import (
	"context"

	"landreg-portal/internal/core/domain"
)

// Notifier delivers out-of-band messages to portal users.
type Notifier interface {
	SendRecoveryLink(ctx context.Context, user *domain.User, token string) error
	AccountCreated(ctx context.Context, user *domain.User)
	StatusChanged(ctx context.Context, reg *domain.Registration)
}

// Input DTOs

// CreateUserInput for admin-created accounts
type CreateUserInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Contact  string      `json:"contact"`
}

// RegisterInput for self-registration
type RegisterInput struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Contact  string      `json:"contact"`
}

// UpdateUserInput is an admin patch; nil fields are left unchanged
type UpdateUserInput struct {
	Name    *string      `json:"name"`
	Email   *string      `json:"email"`
	Contact *string      `json:"contact"`
	Role    *domain.Role `json:"role"`
	Active  *bool        `json:"active"`
}

// UpdateProfileInput is a self-service patch
type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Contact *string `json:"contact"`
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page   int
	Limit  int
	Search string
}
