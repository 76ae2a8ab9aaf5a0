package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landreg-portal/internal/core/domain"
)

var (
	// ErrRecordNotFound indicates the requested record does not exist.
	ErrRecordNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey indicates a unique key is already taken.
	ErrDuplicateKey = errors.New("repository: duplicate key")
	// ErrDuplicateEmail indicates another user already holds the email.
	ErrDuplicateEmail = fmt.Errorf("%w: email", ErrDuplicateKey)
)

// RegistrationRepository defines registration repository interface
type RegistrationRepository interface {
	// List returns copies of every record, newest first.
	List(ctx context.Context) ([]*domain.Registration, error)
	GetByID(ctx context.Context, id string) (*domain.Registration, error)
	// CreateWithSequence assigns reg.ID from the per-type sequence and stores
	// it in one critical section. newID builds the identifier for a sequence.
	CreateWithSequence(ctx context.Context, reg *domain.Registration, newID func(seq int) string) error
	// Put stores a record with a caller-chosen id. Used for seeding.
	Put(ctx context.Context, reg *domain.Registration) error
	// Update applies fn to a copy under the write lock and stores the result
	// only when fn succeeds.
	Update(ctx context.Context, id string, fn func(*domain.Registration) error) (*domain.Registration, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// UserRepository defines user repository interface
type UserRepository interface {
	// Create and Update reject a username or email held by another user
	// under the same lock that stores the record.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	// UpdateMany applies fn to every id; nothing is stored unless all succeed.
	UpdateMany(ctx context.Context, ids []string, fn func(*domain.User) error) ([]*domain.User, error)
	// DeleteMany removes every id after check passes for all of them.
	DeleteMany(ctx context.Context, ids []string, check func(*domain.User) error) (int, error)
	List(ctx context.Context, search string, offset, limit int) ([]*domain.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// SessionRepository defines session repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeAllByUserID(ctx context.Context, userID string, at time.Time) error
	// DeleteExpired drops sessions expired or revoked before now.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	CountActiveByUserID(ctx context.Context, userID string, now time.Time) (int, error)
}

// RecoveryTokenRepository stores password recovery tokens
type RecoveryTokenRepository interface {
	Create(ctx context.Context, token *domain.RecoveryToken) error
	// Consume returns the token and removes it.
	Consume(ctx context.Context, token string) (*domain.RecoveryToken, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
