package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/logger"
	"landreg-portal/internal/pkg/pagination"
	"landreg-portal/internal/pkg/password"

	"go.uber.org/zap"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	hasher   password.Hasher
	clock    clock.Clock
	ids      clock.IDGenerator
	notify   Notifier
	log      *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	hasher password.Hasher,
	clk clock.Clock,
	ids clock.IDGenerator,
	notify Notifier,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clk,
		ids:      ids,
		notify:   notify,
		log:      logger.OrNop(log),
	}
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*domain.User   `json:"users"`
	Meta  *pagination.Meta `json:"meta"`
}

// List lists users with pagination and an optional search term
func (s *UserService) List(ctx context.Context, actor domain.Actor, input *ListUsersInput) (*ListUsersOutput, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return nil, err
	}

	params := pagination.NewParams(input.Page, input.Limit)
	users, total, err := s.userRepo.List(ctx, input.Search, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	return &ListUsersOutput{
		Users: users,
		Meta:  pagination.GetMeta(params, total),
	}, nil
}

// Get gets a user by ID
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// Create creates an active account on behalf of an administrator
func (s *UserService) Create(ctx context.Context, actor domain.Actor, input *CreateUserInput) (*domain.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return nil, err
	}

	user, err := s.newUser(input.Username, input.Password, input.Role, input.Name, input.Email, input.Contact, true)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("by", actor.Username),
	)
	return user, nil
}

// Register creates an inactive account awaiting administrator approval.
// Self-registration may not request the Admin role.
func (s *UserService) Register(ctx context.Context, input *RegisterInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleStaff
	}
	if role == domain.RoleAdmin {
		verr := domain.NewValidationError()
		verr.Add("role", "Admin accounts can only be created by an administrator")
		return nil, verr
	}

	user, err := s.newUser(input.Username, input.Password, role, input.Name, input.Email, input.Contact, false)
	if err != nil {
		return nil, err
	}
	if err := s.store(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
		zap.String("email", logger.MaskEmail(user.Email)),
	)
	return user, nil
}

func (s *UserService) newUser(username, pw string, role domain.Role, name, email, contact string, active bool) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	verr := domain.NewValidationError()
	switch {
	case len(username) < 3 || len(username) > 50:
		verr.Add("username", "must be between 3 and 50 characters")
	case strings.ContainsAny(username, " \t\n"):
		verr.Add("username", "must not contain spaces")
	}
	if !password.ValidatePassword(pw) {
		verr.Add("password", fmt.Sprintf("must be at least %d characters", password.MinLength))
	}
	if !role.Valid() {
		verr.Add("role", domain.ErrInvalidRole.Error())
	}
	validateEmail(email, verr)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(pw)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	return &domain.User{
		ID:        s.ids.New(),
		Username:  username,
		Role:      role,
		Active:    active,
		Name:      strings.TrimSpace(name),
		Email:     email,
		Contact:   strings.TrimSpace(contact),
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *UserService) store(ctx context.Context, user *domain.User) error {
	if err := s.userRepo.Create(ctx, user); err != nil {
		return mapUserErr(err)
	}
	if s.notify != nil {
		s.notify.AccountCreated(ctx, user)
	}
	return nil
}

// Update applies an administrator patch to a user
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, input *UpdateUserInput) (*domain.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return nil, err
	}

	verr := domain.NewValidationError()
	if input.Role != nil && !input.Role.Valid() {
		verr.Add("role", domain.ErrInvalidRole.Error())
	}
	if input.Email != nil {
		validateEmail(strings.TrimSpace(*input.Email), verr)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user, err := s.userRepo.Update(ctx, id, func(u *domain.User) error {
		if input.Role != nil && *input.Role != u.Role {
			if u.IsSeedAdmin() {
				return domain.ErrProtectedAccount
			}
			if u.ID == actor.UserID {
				return domain.ErrCannotChangeOwnRole
			}
			u.Role = *input.Role
		}
		if input.Active != nil && *input.Active != u.Active {
			if u.IsSeedAdmin() {
				return domain.ErrProtectedAccount
			}
			if u.ID == actor.UserID {
				return domain.ErrCannotDeactivateSelf
			}
			u.Active = *input.Active
		}
		applyContact(u, input.Name, input.Email, input.Contact)
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapUserErr(err)
	}

	s.log.Info("user updated", zap.String("username", user.Username), zap.String("by", actor.Username))
	return user, nil
}

// SetActive activates or deactivates an account
func (s *UserService) SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.User, error) {
	return s.Update(ctx, actor, id, &UpdateUserInput{Active: &active})
}

// SetRole changes an account's role
func (s *UserService) SetRole(ctx context.Context, actor domain.Actor, id string, role domain.Role) (*domain.User, error) {
	return s.Update(ctx, actor, id, &UpdateUserInput{Role: &role})
}

// BulkSetActive sets the active flag on every id. Nothing changes unless
// every account can be updated.
func (s *UserService) BulkSetActive(ctx context.Context, actor domain.Actor, ids []string, active bool) ([]*domain.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no users selected", domain.ErrValidation)
	}

	now := s.clock.Now()
	users, err := s.userRepo.UpdateMany(ctx, ids, func(u *domain.User) error {
		if u.Active == active {
			return nil
		}
		if u.IsSeedAdmin() {
			return domain.ErrProtectedAccount
		}
		if u.ID == actor.UserID {
			return domain.ErrCannotDeactivateSelf
		}
		u.Active = active
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapUserErr(err)
	}

	s.log.Info("users updated in bulk",
		zap.Int("count", len(users)),
		zap.Bool("active", active),
		zap.String("by", actor.Username),
	)
	return users, nil
}

// Delete permanently removes an account
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	_, err := s.BulkDelete(ctx, actor, []string{id})
	return err
}

// BulkDelete removes every id. Nothing is removed unless all may be.
func (s *UserService) BulkDelete(ctx context.Context, actor domain.Actor, ids []string) (int, error) {
	if err := policy.Authorize(actor, policy.ActionManageUsers); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no users selected", domain.ErrValidation)
	}

	n, err := s.userRepo.DeleteMany(ctx, ids, func(u *domain.User) error {
		if u.ID == actor.UserID {
			return domain.ErrCannotDeleteSelf
		}
		if u.IsSeedAdmin() {
			return domain.ErrProtectedAccount
		}
		return nil
	})
	if err != nil {
		return 0, mapUserErr(err)
	}

	s.log.Info("users deleted", zap.Int("count", n), zap.String("by", actor.Username))
	return n, nil
}

// GetProfile gets own profile
func (s *UserService) GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

// UpdateProfile updates own name and contact details
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, input *UpdateProfileInput) (*domain.User, error) {
	verr := domain.NewValidationError()
	if input.Email != nil {
		validateEmail(strings.TrimSpace(*input.Email), verr)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	user, err := s.userRepo.Update(ctx, actor.UserID, func(u *domain.User) error {
		applyContact(u, input.Name, input.Email, input.Contact)
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func applyContact(u *domain.User, name, email, contact *string) {
	if name != nil {
		u.Name = strings.TrimSpace(*name)
	}
	if email != nil {
		u.Email = strings.TrimSpace(*email)
	}
	if contact != nil {
		u.Contact = strings.TrimSpace(*contact)
	}
}

func validateEmail(email string, verr *domain.ValidationError) {
	if email == "" {
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		verr.Add("email", "is not a valid email address")
	}
}

func mapUserErr(err error) error {
	switch {
	case errors.Is(err, repositories.ErrRecordNotFound):
		return domain.ErrUserNotFound
	case errors.Is(err, repositories.ErrDuplicateEmail):
		verr := domain.NewValidationError()
		verr.Add("email", "is already in use")
		return verr
	case errors.Is(err, repositories.ErrDuplicateKey):
		return domain.ErrUserAlreadyExists
	default:
		return err
	}
}
