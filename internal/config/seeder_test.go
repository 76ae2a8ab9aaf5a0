package config

import (
	"context"
	"testing"
	"time"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

func newTestSeeder(cfg SeedConfig) (*Seeder, repositories.UserRepository, repositories.RegistrationRepository) {
	users := repositories.NewUserRepository()
	regs := repositories.NewRegistrationRepository()
	s := NewSeeder(users, regs, password.Hasher{Cost: bcrypt.MinCost}, clock.UUIDGenerator{},
		clock.NewStub(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)), cfg, nil)
	return s, users, regs
}

func TestSeederDemoData(t *testing.T) {
	s, users, regs := newTestSeeder(SeedConfig{DemoData: true, AdminPassword: "Admin123", DemoPassword: "Password123"})
	ctx := context.Background()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	// Seeding twice is harmless.
	if err := s.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	_, total, _ := users.List(ctx, "", 0, 0)
	if total != 5 {
		t.Errorf("seeded %d users, want 5", total)
	}
	admin, err := users.GetByUsername(ctx, "admin")
	if err != nil || admin.Role != domain.RoleAdmin || !admin.Active {
		t.Fatalf("admin = %+v, %v", admin, err)
	}
	sec, _ := users.GetByUsername(ctx, "secretary_staff")
	if sec == nil || sec.Active {
		t.Errorf("secretary_staff should be seeded inactive: %+v", sec)
	}

	list, _ := regs.List(ctx)
	if len(list) != 3 {
		t.Fatalf("seeded %d registrations, want 3", len(list))
	}
	if list[0].ID != "LND-2024-002" || list[2].ID != "LND-2024-001" {
		t.Errorf("order = %s, %s, %s", list[0].ID, list[1].ID, list[2].ID)
	}
	for _, r := range list {
		if len(r.StatusHistory) == 0 || r.StatusHistory[0].Status != r.Status {
			t.Errorf("%s history head %v does not match status %q", r.ID, r.StatusHistory, r.Status)
		}
	}
}

func TestSeederAdminOnly(t *testing.T) {
	s, users, regs := newTestSeeder(SeedConfig{AdminPassword: "Admin123"})
	ctx := context.Background()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, total, _ := users.List(ctx, "", 0, 0); total != 1 {
		t.Errorf("seeded %d users, want 1", total)
	}
	if list, _ := regs.List(ctx); len(list) != 0 {
		t.Errorf("seeded %d registrations, want 0", len(list))
	}
}

func TestSeederRejectsWeakAdminPassword(t *testing.T) {
	s, _, _ := newTestSeeder(SeedConfig{AdminPassword: "short"})
	if err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() accepted a short admin password")
	}
}
