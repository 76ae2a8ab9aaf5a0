package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/config"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/password"

	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2025, time.March, 14, 9, 30, 0, 0, time.UTC)

// seqIDs hands out id-1, id-2, ...
type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) New() string { return fmt.Sprintf("id-%d", g.n.Add(1)) }

type recordingNotifier struct {
	mu       sync.Mutex
	tokens   map[string]string
	created  []string
	statuses []domain.Status
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{tokens: make(map[string]string)}
}

func (n *recordingNotifier) SendRecoveryLink(ctx context.Context, user *domain.User, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens[user.Username] = token
	return nil
}

func (n *recordingNotifier) AccountCreated(ctx context.Context, user *domain.User) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, user.Username)
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, reg *domain.Registration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, reg.Status)
}

func (n *recordingNotifier) token(username string) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	t, ok := n.tokens[username]
	return t, ok
}

var testHasher = password.Hasher{Cost: bcrypt.MinCost}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "test-secret", AccessTokenMins: 60},
	}
}

func newRegistrationService(t *testing.T, clk clock.Clock) (*RegistrationService, repositories.RegistrationRepository, *recordingNotifier) {
	t.Helper()
	repo := repositories.NewRegistrationRepository()
	notify := newRecordingNotifier()
	return NewRegistrationService(repo, clk, &seqIDs{}, nil, notify, nil), repo, notify
}

// seedUser stores an account directly and returns it.
func seedUser(t *testing.T, repo repositories.UserRepository, id, username string, role domain.Role, active bool, pw string) *domain.User {
	t.Helper()
	hashed, err := testHasher.Hash(pw)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := &domain.User{
		ID:        id,
		Username:  username,
		Role:      role,
		Active:    active,
		Password:  hashed,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func landDraft(size string) *domain.RegistrationDraft {
	return &domain.RegistrationDraft{
		Type: domain.TypeLand,
		Applicant: domain.Applicant{
			FullName: "Akosua Mensah",
			Phone:    "0244000111",
			Email:    "akosua@example.com",
			IDType:   domain.IDGhanaCard,
			IDNumber: "GHA-123456789-5",
		},
		Location:  domain.Location{Town: "Tuobodom"},
		SizeAcres: domain.NumericInput(size),
		LandUse:   domain.LandUseAgricultural,
		Documents: []domain.Document{{Name: "site_plan.pdf", Size: 1024, MimeType: "application/pdf"}},
	}
}

func permitDraft(t domain.RegistrationType, cost string) *domain.RegistrationDraft {
	return &domain.RegistrationDraft{
		Type: t,
		Applicant: domain.Applicant{
			FullName: "Kwame Boateng",
			Phone:    "0555123123",
			IDType:   domain.IDPassport,
			IDNumber: "G0123456",
		},
		Location:      domain.Location{Town: "Tanoso"},
		PermitDetails: &domain.PermitDraft{ProposedStructure: "Two-storey house", EstimatedCost: domain.NumericInput(cost)},
	}
}

// newRepoForLatency returns a store holding LND-2025-001.
func newRepoForLatency(t *testing.T) repositories.RegistrationRepository {
	t.Helper()
	repo := repositories.NewRegistrationRepository()
	reg := &domain.Registration{ID: "LND-2025-001", Type: domain.TypeLand, Status: domain.StatusPending, SubmittedBy: "deo"}
	if err := repo.Put(context.Background(), reg); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	return repo
}
