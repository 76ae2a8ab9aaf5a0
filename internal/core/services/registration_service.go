package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/pkg/clock"
	"landreg-portal/internal/pkg/latency"
	"landreg-portal/internal/pkg/logger"

	"go.uber.org/zap"
)

// SubmittedNote is the first history entry of every new registration.
const SubmittedNote = "Application submitted successfully."

// SortField names a column registrations can be ordered by
type SortField string

const (
	SortByID             SortField = "id"
	SortByApplicant      SortField = "applicant"
	SortByTown           SortField = "town"
	SortBySize           SortField = "sizeAcres"
	SortBySubmissionDate SortField = "submissionDate"
	SortByStatus         SortField = "status"
)

// ListQuery narrows and orders a registration list
type ListQuery struct {
	// Term matches id, applicant name or town, case-insensitively.
	Term   string
	Status domain.Status
	Type   domain.RegistrationType
	SortBy SortField
	Desc   bool
}

// RegistrationService owns the registration store: creation with id
// assignment, lookup, status transitions and deletion.
type RegistrationService struct {
	repo    repositories.RegistrationRepository
	clock   clock.Clock
	ids     clock.IDGenerator
	latency *latency.Simulator
	notify  Notifier
	log     *zap.Logger
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	repo repositories.RegistrationRepository,
	clk clock.Clock,
	ids clock.IDGenerator,
	lat *latency.Simulator,
	notify Notifier,
	log *zap.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:    repo,
		clock:   clk,
		ids:     ids,
		latency: lat,
		notify:  notify,
		log:     logger.OrNop(log),
	}
}

// List returns every registration, newest first
func (s *RegistrationService) List(ctx context.Context) ([]*domain.Registration, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// Search lists registrations matching q
func (s *RegistrationService) Search(ctx context.Context, q ListQuery) ([]*domain.Registration, error) {
	regs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return ApplyQuery(regs, q), nil
}

// Get returns the registration with exactly this id
func (s *RegistrationService) Get(ctx context.Context, id string) (*domain.Registration, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRegistrationErr(err, id)
	}
	return reg, nil
}

// Create validates the draft and stores it as a new Pending Review
// registration owned by submittedBy.
func (s *RegistrationService) Create(ctx context.Context, draft *domain.RegistrationDraft, submittedBy string) (*domain.Registration, error) {
	if draft == nil {
		return nil, fmt.Errorf("%w: empty registration", domain.ErrValidation)
	}
	reg, err := draft.Build()
	if err != nil {
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	reg.SubmittedBy = submittedBy
	reg.SubmissionDate = now
	reg.StatusHistory = nil
	reg.RecordStatus(domain.StatusPending, now, SubmittedNote)
	for i := range reg.Documents {
		if reg.Documents[i].StorageRef == "" {
			reg.Documents[i].StorageRef = "mock://documents/" + s.ids.New()
		}
	}

	prefix := reg.Type.Prefix()
	year := now.Year()
	err = s.repo.CreateWithSequence(ctx, reg, func(seq int) string {
		return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
	})
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.log.Info("registration created",
		zap.String("id", reg.ID),
		zap.String("type", string(reg.Type)),
		zap.String("submitted_by", submittedBy),
		zap.String("applicant_phone", logger.MaskPhone(reg.Applicant.Phone)),
	)
	return reg.Clone(), nil
}

// UpdateStatus moves a registration to status and records the transition.
// Any status may follow any other; notes are mandatory.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, status domain.Status, notes string) (*domain.Registration, error) {
	notes = strings.TrimSpace(notes)
	verr := domain.NewValidationError()
	if !status.Valid() {
		verr.Add("status", domain.ErrInvalidStatus.Error())
	}
	if notes == "" {
		verr.Add("notes", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.latency.Wait(ctx); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var previous domain.Status
	reg, err := s.repo.Update(ctx, id, func(r *domain.Registration) error {
		previous = r.Status
		r.RecordStatus(status, now, notes)
		return nil
	})
	if err != nil {
		return nil, mapRegistrationErr(err, id)
	}

	s.log.Info("registration status changed",
		zap.String("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	if s.notify != nil {
		s.notify.StatusChanged(ctx, reg)
	}
	return reg, nil
}

// Delete removes a registration. It reports false when the id is unknown.
func (s *RegistrationService) Delete(ctx context.Context, id string) (bool, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete registration %s: %w", id, err)
	}
	if ok {
		s.log.Info("registration deleted", zap.String("id", id))
	}
	return ok, nil
}

func mapRegistrationErr(err error, id string) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrRegistrationNotFound, id)
	}
	return err
}

// ApplyQuery returns the registrations matching q in the requested order.
// regs itself is left untouched.
func ApplyQuery(regs []*domain.Registration, q ListQuery) []*domain.Registration {
	term := strings.ToLower(strings.TrimSpace(q.Term))
	out := make([]*domain.Registration, 0, len(regs))
	for _, r := range regs {
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		if q.Type != "" && r.Type != q.Type {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(r.ID), term) &&
			!strings.Contains(strings.ToLower(r.Applicant.FullName), term) &&
			!strings.Contains(strings.ToLower(r.Location.Town), term) {
			continue
		}
		out = append(out, r)
	}

	less := lessFunc(q.SortBy)
	if less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		if q.Desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field SortField) func(a, b *domain.Registration) bool {
	switch field {
	case SortByID:
		return func(a, b *domain.Registration) bool { return a.ID < b.ID }
	case SortByApplicant:
		return func(a, b *domain.Registration) bool { return a.Applicant.FullName < b.Applicant.FullName }
	case SortByTown:
		return func(a, b *domain.Registration) bool { return a.Location.Town < b.Location.Town }
	case SortBySize:
		return func(a, b *domain.Registration) bool { return a.SizeAcres < b.SizeAcres }
	case SortBySubmissionDate:
		return func(a, b *domain.Registration) bool { return a.SubmissionDate.Before(b.SubmissionDate) }
	case SortByStatus:
		return func(a, b *domain.Registration) bool { return a.Status < b.Status }
	default:
		return nil
	}
}

// ParseSortField maps a query-string value to a SortField. Unknown values
// keep the store order.
func ParseSortField(s string) SortField {
	switch f := SortField(strings.TrimSpace(s)); f {
	case SortByID, SortByApplicant, SortByTown, SortBySize, SortBySubmissionDate, SortByStatus:
		return f
	default:
		return ""
	}
}
