package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/jwt"
	"landreg-portal/internal/pkg/latency"
	"landreg-portal/internal/pkg/logger"
	"landreg-portal/internal/pkg/password"

	"go.uber.org/zap"
)

// RecoveryTokenTTL is how long a password recovery link stays valid
const RecoveryTokenTTL = 30 * time.Minute

// ErrRecoveryTokenInvalid is returned for unknown, used or expired recovery tokens
var ErrRecoveryTokenInvalid = fmt.Errorf("%w: recovery token is invalid or expired", domain.ErrValidation)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo     repositories.UserRepository
	sessionRepo  repositories.SessionRepository
	recoveryRepo repositories.RecoveryTokenRepository
	hasher       password.Hasher
	clock        clock.Clock
	ids          clock.IDGenerator
	latency      *latency.Simulator
	notify       Notifier
	cfg          *config.Config
	log          *zap.Logger
}

// AuthDeps groups the collaborators of AuthService
type AuthDeps struct {
	Users    repositories.UserRepository
	Sessions repositories.SessionRepository
	Recovery repositories.RecoveryTokenRepository
	Hasher   password.Hasher
	Clock    clock.Clock
	IDs      clock.IDGenerator
	Latency  *latency.Simulator
	Notifier Notifier
	Logger   *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(deps AuthDeps, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:     deps.Users,
		sessionRepo:  deps.Sessions,
		recoveryRepo: deps.Recovery,
		hasher:       deps.Hasher,
		clock:        deps.Clock,
		ids:          deps.IDs,
		latency:      deps.Latency,
		notify:       deps.Notifier,
		cfg:          cfg,
		log:          logger.OrNop(deps.Logger),
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResetPasswordInput changes a password given the current one
type ResetPasswordInput struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RecoveryInput starts the forgot-password flow
type RecoveryInput struct {
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// CompleteRecoveryInput finishes the forgot-password flow
type CompleteRecoveryInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Authenticate checks credentials and returns the account. Unknown users
// and wrong passwords are indistinguishable.
func (s *AuthService) Authenticate(ctx context.Context, username, pw string) (*domain.User, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(pw, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

// Login authenticates a user and opens a session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		s.log.Info("login failed", zap.String("username", input.Username), zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:        s.ids.New(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.AccessTokenTTL()),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		string(user.Role),
		session.ID,
		s.cfg.JWT.Secret,
		now,
		session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.log.Info("user logged in", zap.String("username", user.Username), zap.String("session_id", session.ID))

	return &AuthResponse{
		User:        user,
		AccessToken: token,
		ExpiresAt:   session.ExpiresAt,
	}, nil
}

// ValidateToken resolves an access token to the acting user and the session
// it is bound to. The role comes from the store so changes apply at once.
func (s *AuthService) ValidateToken(ctx context.Context, accessToken string) (domain.Actor, string, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		return domain.Actor{}, "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	session, err := s.sessionRepo.GetByID(ctx, claims.SessionID())
	if err != nil {
		return domain.Actor{}, "", fmt.Errorf("%w: unknown session", domain.ErrUnauthorized)
	}
	if session.IsRevoked() {
		return domain.Actor{}, "", domain.ErrSessionRevoked
	}
	if session.IsExpired(s.clock.Now()) {
		return domain.Actor{}, "", fmt.Errorf("%w: session expired", domain.ErrUnauthorized)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return domain.Actor{}, "", fmt.Errorf("%w: account no longer exists", domain.ErrUnauthorized)
	}
	if !user.Active {
		return domain.Actor{}, "", domain.ErrUserInactive
	}

	return user.Actor(), session.ID, nil
}

// Logout revokes the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Revoke(ctx, sessionID, s.clock.Now()); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("%w: unknown session", domain.ErrUnauthorized)
		}
		return err
	}

	s.log.Info("user logged out", zap.String("session_id", sessionID))
	return nil
}

// LogoutAll revokes every open session of a user and reports how many were
// still live
func (s *AuthService) LogoutAll(ctx context.Context, userID string) (int, error) {
	now := s.clock.Now()
	n, err := s.sessionRepo.CountActiveByUserID(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if err := s.sessionRepo.RevokeAllByUserID(ctx, userID, now); err != nil {
		return 0, err
	}

	s.log.Info("all sessions revoked", zap.String("user_id", userID), zap.Int("sessions", n))
	return n, nil
}

// ResetPassword replaces a password after checking the current one. Every
// open session of the account is revoked.
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return mapUserErr(err)
	}
	if !s.hasher.Verify(input.CurrentPassword, user.Password) {
		return domain.ErrWrongPassword
	}
	if err := s.setPassword(ctx, user.ID, input.NewPassword); err != nil {
		return err
	}

	s.log.Info("password changed", zap.String("username", user.Username))
	return nil
}

// RequestRecoveryLink starts the forgot-password flow. It never reveals
// whether an account matched: only a matching active account with the same
// contact number receives a token.
func (s *AuthService) RequestRecoveryLink(ctx context.Context, input *RecoveryInput) error {
	email := strings.TrimSpace(input.Email)
	contact := strings.TrimSpace(input.Contact)

	verr := domain.NewValidationError()
	if email == "" {
		verr.Add("email", "is required")
	}
	if contact == "" {
		verr.Add("contact", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || !user.Active || digitsOnly(contact) == "" || digitsOnly(user.Contact) != digitsOnly(contact) {
		s.log.Debug("recovery requested for unmatched account", zap.String("email", logger.MaskEmail(email)))
		return nil
	}

	token := &domain.RecoveryToken{
		Token:     s.ids.New(),
		UserID:    user.ID,
		ExpiresAt: s.clock.Now().Add(RecoveryTokenTTL),
	}
	if err := s.recoveryRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("store recovery token: %w", err)
	}
	if s.notify != nil {
		if err := s.notify.SendRecoveryLink(ctx, user, token.Token); err != nil {
			s.log.Warn("recovery link not delivered", zap.String("username", user.Username), zap.Error(err))
		}
	}
	return nil
}

// CompleteRecovery sets a new password using a recovery token. Tokens are
// single use.
func (s *AuthService) CompleteRecovery(ctx context.Context, input *CompleteRecoveryInput) error {
	if !password.ValidatePassword(input.NewPassword) {
		return domain.ErrInvalidPassword
	}

	token, err := s.recoveryRepo.Consume(ctx, strings.TrimSpace(input.Token))
	if err != nil {
		return ErrRecoveryTokenInvalid
	}
	if s.clock.Now().After(token.ExpiresAt) {
		return ErrRecoveryTokenInvalid
	}
	if err := s.setPassword(ctx, token.UserID, input.NewPassword); err != nil {
		return err
	}

	s.log.Info("password recovered", zap.String("user_id", token.UserID))
	return nil
}

// PurgeExpired drops expired sessions and recovery tokens
func (s *AuthService) PurgeExpired(ctx context.Context) (sessions, tokens int, err error) {
	now := s.clock.Now()
	if sessions, err = s.sessionRepo.DeleteExpired(ctx, now); err != nil {
		return 0, 0, err
	}
	if tokens, err = s.recoveryRepo.DeleteExpired(ctx, now); err != nil {
		return sessions, 0, err
	}
	return sessions, tokens, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, pw string) error {
	if !password.ValidatePassword(pw) {
		return domain.ErrInvalidPassword
	}
	hashed, err := s.hasher.Hash(pw)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	if _, err := s.userRepo.Update(ctx, userID, func(u *domain.User) error {
		u.Password = hashed
		u.UpdatedAt = now
		return nil
	}); err != nil {
		return mapUserErr(err)
	}
	return s.sessionRepo.RevokeAllByUserID(ctx, userID, now)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
