package services

import (
	"context"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"
	"landreg-portal/internal/pkg/logger"

	"go.uber.org/zap"
)

// GuardedRegistrationService checks every call against the access policy
// before it reaches the lifecycle manager. Denials never touch the store.
type GuardedRegistrationService struct {
	inner *RegistrationService
	log   *zap.Logger
}

// NewGuardedRegistrationService wraps inner with policy checks
func NewGuardedRegistrationService(inner *RegistrationService, log *zap.Logger) *GuardedRegistrationService {
	return &GuardedRegistrationService{inner: inner, log: logger.OrNop(log)}
}

// List returns the registrations visible to actor, newest first
func (s *GuardedRegistrationService) List(ctx context.Context, actor domain.Actor) ([]*domain.Registration, error) {
	if err := s.authorize(actor, policy.ActionViewOwnRegistrations); err != nil {
		return nil, err
	}
	regs, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	return policy.FilterVisible(actor, regs), nil
}

// Search is List narrowed and ordered by q
func (s *GuardedRegistrationService) Search(ctx context.Context, actor domain.Actor, q ListQuery) ([]*domain.Registration, error) {
	regs, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	return ApplyQuery(regs, q), nil
}

// Get returns one registration if actor may see it
func (s *GuardedRegistrationService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Registration, error) {
	if err := s.authorize(actor, policy.ActionViewOwnRegistrations); err != nil {
		return nil, err
	}
	reg, err := s.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeView(actor, reg); err != nil {
		s.denied(actor, "view registration", err)
		return nil, err
	}
	return reg, nil
}

// Create files a new registration owned by actor
func (s *GuardedRegistrationService) Create(ctx context.Context, actor domain.Actor, draft *domain.RegistrationDraft) (*domain.Registration, error) {
	if err := s.authorize(actor, policy.ActionCreateRegistration); err != nil {
		return nil, err
	}
	return s.inner.Create(ctx, draft, actor.Username)
}

// UpdateStatus records a review decision
func (s *GuardedRegistrationService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.Status, notes string) (*domain.Registration, error) {
	if err := s.authorize(actor, policy.ActionUpdateRegistrationStatus); err != nil {
		return nil, err
	}
	return s.inner.UpdateStatus(ctx, id, status, notes)
}

// Delete removes a registration
func (s *GuardedRegistrationService) Delete(ctx context.Context, actor domain.Actor, id string) (bool, error) {
	if err := s.authorize(actor, policy.ActionDeleteRegistration); err != nil {
		return false, err
	}
	return s.inner.Delete(ctx, id)
}

// RegistrationSummary is what a dashboard shows about registrations
type RegistrationSummary struct {
	Stats   domain.StatusStats
	Visible []*domain.Registration
}

// Dashboard counts the registrations visible to actor by status
func (s *GuardedRegistrationService) Dashboard(ctx context.Context, actor domain.Actor) (*RegistrationSummary, error) {
	regs, err := s.List(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &RegistrationSummary{Stats: domain.CountStatuses(regs), Visible: regs}, nil
}

func (s *GuardedRegistrationService) authorize(actor domain.Actor, action policy.Action) error {
	if err := policy.Authorize(actor, action); err != nil {
		s.denied(actor, action.String(), err)
		return err
	}
	return nil
}

func (s *GuardedRegistrationService) denied(actor domain.Actor, action string, err error) {
	s.log.Warn("access denied",
		zap.String("username", actor.Username),
		zap.String("role", string(actor.Role)),
		zap.String("action", action),
		zap.Error(err),
	)
}
