package services

import (
	"context"
	"fmt"
	"strings"

	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/logger"

	"go.uber.org/zap"
)

// NotificationService delivers portal notices. There is no mail or SMS
// gateway yet, so messages are written to the log.
type NotificationService struct {
	baseURL string
	log     *zap.Logger
}

// NewNotificationService creates a new notification service. baseURL is
// the public address of the portal used in recovery links.
func NewNotificationService(baseURL string, log *zap.Logger) *NotificationService {
	return &NotificationService{
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger.OrNop(log).Named("notify"),
	}
}

// RecoveryLink builds the link a user follows to choose a new password
func (s *NotificationService) RecoveryLink(token string) string {
	return fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, token)
}

// SendRecoveryLink sends a password recovery link
func (s *NotificationService) SendRecoveryLink(ctx context.Context, user *domain.User, token string) error {
	if user.Email == "" {
		return fmt.Errorf("user %s has no email address", user.Username)
	}
	s.log.Info("password recovery link",
		zap.String("to", logger.MaskEmail(user.Email)),
		zap.String("username", user.Username),
		zap.String("link", s.RecoveryLink(token)),
	)
	return nil
}

// AccountCreated announces a new account; inactive ones await approval
func (s *NotificationService) AccountCreated(ctx context.Context, user *domain.User) {
	msg := "account created"
	if !user.Active {
		msg = "account awaiting administrator approval"
	}
	s.log.Info(msg,
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)),
	)
}

// StatusChanged tells the applicant about a review decision
func (s *NotificationService) StatusChanged(ctx context.Context, reg *domain.Registration) {
	notes := ""
	if len(reg.StatusHistory) > 0 {
		notes = reg.StatusHistory[0].Notes
	}
	s.log.Info("registration status notice",
		zap.String("id", reg.ID),
		zap.String("status", string(reg.Status)),
		zap.String("to", logger.MaskPhone(reg.Applicant.Phone)),
		zap.String("notes", notes),
	)
}

var _ Notifier = (*NotificationService)(nil)
