package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"landreg-portal/internal/core/domain"
)

func TestSessionRepository_RevokeAndPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	repo := NewSessionRepository()

	for _, s := range []*domain.Session{
		{ID: "s1", UserID: "u1", ExpiresAt: now.Add(time.Hour)},
		{ID: "s2", UserID: "u1", ExpiresAt: now.Add(time.Hour)},
		{ID: "s3", UserID: "u2", ExpiresAt: now.Add(-time.Minute)},
	} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create(%s) error = %v", s.ID, err)
		}
	}
	if err := repo.Create(ctx, &domain.Session{ID: "s1"}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate Create() error = %v", err)
	}

	if n, _ := repo.CountActiveByUserID(ctx, "u1", now); n != 2 {
		t.Fatalf("active sessions for u1 = %d, want 2", n)
	}

	if err := repo.Revoke(ctx, "s1", now); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	got, err := repo.GetByID(ctx, "s1")
	if err != nil || !got.IsRevoked() {
		t.Fatalf("GetByID(s1) = %+v, %v", got, err)
	}
	if err := repo.Revoke(ctx, "missing", now); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("Revoke(missing) error = %v", err)
	}

	n, err := repo.DeleteExpired(ctx, now)
	if err != nil || n != 2 {
		t.Fatalf("DeleteExpired() = %d, %v; want 2", n, err)
	}
	if _, err := repo.GetByID(ctx, "s2"); err != nil {
		t.Fatalf("live session purged: %v", err)
	}

	if err := repo.RevokeAllByUserID(ctx, "u1", now); err != nil {
		t.Fatalf("RevokeAllByUserID() error = %v", err)
	}
	if n, _ := repo.CountActiveByUserID(ctx, "u1", now); n != 0 {
		t.Fatalf("active sessions after RevokeAll = %d", n)
	}
}

func TestRecoveryTokenRepository_ConsumeOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	repo := NewRecoveryTokenRepository()

	if err := repo.Create(ctx, &domain.RecoveryToken{Token: "t1", UserID: "u1", ExpiresAt: now.Add(30 * time.Minute)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(ctx, &domain.RecoveryToken{Token: "t2", UserID: "u1", ExpiresAt: now.Add(-time.Minute)}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tok, err := repo.Consume(ctx, "t1")
	if err != nil || tok.UserID != "u1" {
		t.Fatalf("Consume(t1) = %+v, %v", tok, err)
	}
	if _, err := repo.Consume(ctx, "t1"); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("second Consume(t1) error = %v", err)
	}

	if n, _ := repo.DeleteExpired(ctx, now); n != 1 {
		t.Fatalf("DeleteExpired() = %d, want 1", n)
	}
}
