package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/password"

	"go.uber.org/zap"
)

// Seeder fills the in-memory stores at startup
type Seeder struct {
	users         repositories.UserRepository
	registrations repositories.RegistrationRepository
	hasher        password.Hasher
	ids           clock.IDGenerator
	clock         clock.Clock
	cfg           SeedConfig
	log           *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(
	users repositories.UserRepository,
	registrations repositories.RegistrationRepository,
	hasher password.Hasher,
	ids clock.IDGenerator,
	clk clock.Clock,
	cfg SeedConfig,
	log *zap.Logger,
) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		users:         users,
		registrations: registrations,
		hasher:        hasher,
		ids:           ids,
		clock:         clk,
		cfg:           cfg,
		log:           log,
	}
}

// Run executes all seeders. The admin account is always created; demo
// staff and registrations only when enabled.
func (s *Seeder) Run(ctx context.Context) error {
	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !s.cfg.DemoData {
		return nil
	}

	if err := s.seedDemoUsers(ctx); err != nil {
		return fmt.Errorf("seed demo users: %w", err)
	}
	if err := s.seedRegistrations(ctx); err != nil {
		return fmt.Errorf("seed registrations: %w", err)
	}

	s.log.Info("demo data seeded")
	return nil
}

func (s *Seeder) seedAdminUser(ctx context.Context) error {
	if !password.ValidatePassword(s.cfg.AdminPassword) {
		return domain.ErrInvalidPassword
	}
	return s.createUser(ctx, domain.SeedAdminUsername, s.cfg.AdminPassword, domain.RoleAdmin, true, "District Administrator", "admin@techimannorth.gov.gh")
}

func (s *Seeder) seedDemoUsers(ctx context.Context) error {
	demo := []struct {
		username string
		role     domain.Role
		active   bool
		name     string
		email    string
	}{
		{"head_of_dept", domain.RoleHead, true, "Head of Department", "head@techimannorth.gov.gh"},
		{"deo_officer", domain.RoleDateEntryOfficer, true, "Data Entry Officer", "deo@techimannorth.gov.gh"},
		{"secretary_staff", domain.RoleSecretary, false, "Department Secretary", "secretary@techimannorth.gov.gh"},
		{"staff_member", domain.RoleStaff, true, "Staff Member", "staff@techimannorth.gov.gh"},
	}
	for _, u := range demo {
		if err := s.createUser(ctx, u.username, s.cfg.DemoPassword, u.role, u.active, u.name, u.email); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createUser(ctx context.Context, username, pw string, role domain.Role, active bool, name, email string) error {
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := s.hasher.Hash(pw)
	if err != nil {
		return err
	}
	now := s.clock.Now()
	err = s.users.Create(ctx, &domain.User{
		ID:        s.ids.New(),
		Username:  username,
		Role:      role,
		Active:    active,
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	s.log.Info("user seeded", zap.String("username", username), zap.String("role", string(role)))
	return nil
}

func (s *Seeder) seedRegistrations(ctx context.Context) error {
	// Oldest first; the store lists the last insert first.
	for _, reg := range demoRegistrations() {
		if err := s.registrations.Put(ctx, reg); err != nil && !errors.Is(err, repositories.ErrDuplicateKey) {
			return err
		}
	}
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func demoRegistrations() []*domain.Registration {
	sitePlan := func(name string, size int64) []domain.Document {
		return []domain.Document{{Name: name, Size: size, MimeType: "application/pdf", StorageRef: "mock://documents/" + name}}
	}
	location := func(town, lat, lng string) domain.Location {
		return domain.Location{
			Region:         domain.DefaultRegion,
			District:       domain.DefaultDistrict,
			Town:           town,
			GPSCoordinates: domain.GPSCoordinates{Latitude: lat, Longitude: lng},
		}
	}

	return []*domain.Registration{
		{
			ID:   "LND-2024-001",
			Type: domain.TypeLand,
			Applicant: domain.Applicant{
				FullName: "Ama Serwaa",
				Address:  "P.O. Box 123, Tuobodom",
				Phone:    "0244123456",
				Email:    "ama.s@example.com",
				IDType:   domain.IDGhanaCard,
				IDNumber: "GHA-123456789-0",
			},
			Location:       location("Tuobodom", "7.6543", "-1.9876"),
			SizeAcres:      2.5,
			LandUse:        domain.LandUseAgricultural,
			Status:         domain.StatusApproved,
			SubmissionDate: day("2024-05-15T10:30:00Z"),
			Documents:      sitePlan("Site_Plan_001.pdf", 1200000),
			StatusHistory: []domain.StatusEntry{
				{Status: domain.StatusApproved, Date: day("2024-06-20T00:00:00Z"), Notes: "All documents verified and approved."},
				{Status: domain.StatusPending, Date: day("2024-05-15T10:30:00Z"), Notes: "Application submitted."},
			},
			SubmittedBy: "deo_officer",
		},
		{
			ID:   "LND-2024-003",
			Type: domain.TypeLand,
			Applicant: domain.Applicant{
				FullName: "Yaa Dufie",
				Address:  "Plot 7, Krobo",
				Phone:    "0208111222",
				Email:    "yaa.d@example.com",
				IDType:   domain.IDPassport,
				IDNumber: "G0123456",
			},
			Location:       location("Krobo", "7.6123", "-1.9432"),
			SizeAcres:      5.0,
			LandUse:        domain.LandUseCommercial,
			Status:         domain.StatusQueried,
			SubmissionDate: day("2024-06-10T09:00:00Z"),
			Documents:      sitePlan("Site_Plan_003.pdf", 1800000),
			StatusHistory: []domain.StatusEntry{
				{Status: domain.StatusQueried, Date: day("2024-07-05T00:00:00Z"), Notes: "Inconsistent boundary markers in site plan. Awaiting revised document."},
				{Status: domain.StatusPending, Date: day("2024-06-10T09:00:00Z"), Notes: "Application submitted."},
			},
			SubmittedBy: "deo_officer",
		},
		{
			ID:   "LND-2024-002",
			Type: domain.TypeLand,
			Applicant: domain.Applicant{
				FullName: "Kwabena Asante",
				Address:  "H/No. 45, Offinso Road, Tanoso",
				Phone:    "0555987654",
				Email:    "k.asante@example.com",
				IDType:   domain.IDGhanaCard,
				IDNumber: "GHA-987654321-1",
			},
			Location:       location("Tanoso", "7.5999", "-1.9555"),
			SizeAcres:      0.8,
			LandUse:        domain.LandUseResidential,
			Status:         domain.StatusPending,
			SubmissionDate: day("2024-06-28T14:00:00Z"),
			Documents:      sitePlan("Indenture_002.pdf", 2500000),
			StatusHistory: []domain.StatusEntry{
				{Status: domain.StatusPending, Date: day("2024-06-28T14:00:00Z"), Notes: "Application submitted, pending review by surveyor."},
			},
			SubmittedBy: "staff_member",
		},
	}
}
