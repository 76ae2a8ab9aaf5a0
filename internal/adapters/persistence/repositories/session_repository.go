package repositories

import (
	"context"
	"sync"
	"time"

	"landreg-portal/internal/core/domain"
)

// sessionRepository implements SessionRepository in memory
type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewSessionRepository creates a new session repository
func NewSessionRepository() SessionRepository {
	return &sessionRepository{sessions: make(map[string]*domain.Session)}
}

// Create creates a new session
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; ok {
		return ErrDuplicateKey
	}
	s := *session
	r.sessions[s.ID] = &s
	return nil
}

// GetByID gets a session by ID
func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	c := *s
	return &c, nil
}

// Revoke revokes a session
func (r *sessionRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return ErrRecordNotFound
	}
	if s.RevokedAt == nil {
		s.RevokedAt = &at
	}
	return nil
}

// RevokeAllByUserID revokes every session of a user
func (r *sessionRepository) RevokeAllByUserID(ctx context.Context, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			revokedAt := at
			s.RevokedAt = &revokedAt
		}
	}
	return nil
}

// DeleteExpired deletes expired and revoked sessions
func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, s := range r.sessions {
		if s.IsRevoked() || s.IsExpired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

// CountActiveByUserID counts live sessions of a user
func (r *sessionRepository) CountActiveByUserID(ctx context.Context, userID string, now time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.sessions {
		if s.UserID == userID && !s.IsRevoked() && !s.IsExpired(now) {
			n++
		}
	}
	return n, nil
}

// recoveryTokenRepository implements RecoveryTokenRepository in memory
type recoveryTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]domain.RecoveryToken
}

// NewRecoveryTokenRepository creates a new recovery token repository
func NewRecoveryTokenRepository() RecoveryTokenRepository {
	return &recoveryTokenRepository{tokens: make(map[string]domain.RecoveryToken)}
}

// Create stores a recovery token
func (r *recoveryTokenRepository) Create(ctx context.Context, token *domain.RecoveryToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[token.Token]; ok {
		return ErrDuplicateKey
	}
	r.tokens[token.Token] = *token
	return nil
}

// Consume returns and removes a recovery token
func (r *recoveryTokenRepository) Consume(ctx context.Context, token string) (*domain.RecoveryToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[token]
	if !ok {
		return nil, ErrRecordNotFound
	}
	delete(r.tokens, token)
	return &t, nil
}

// DeleteExpired deletes expired recovery tokens
func (r *recoveryTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for k, t := range r.tokens {
		if now.After(t.ExpiresAt) {
			delete(r.tokens, k)
			n++
		}
	}
	return n, nil
}
