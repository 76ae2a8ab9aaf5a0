package services

import (
	"context"
	"time"

	"landreg-portal/internal/adapters/persistence/repositories"
	"landreg-portal/internal/core/domain"
	"landreg-portal/internal/core/policy"
)

// RecentLimit is the number of registrations shown under recent activity
const RecentLimit = 5

// DashboardService assembles the landing page summaries
type DashboardService struct {
	registrations *GuardedRegistrationService
	userRepo      repositories.UserRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(registrations *GuardedRegistrationService, userRepo repositories.UserRepository) *DashboardService {
	return &DashboardService{registrations: registrations, userRepo: userRepo}
}

// DashboardData represents dashboard data
type DashboardData struct {
	Username string              `json:"username"`
	Role     domain.Role         `json:"role"`
	Stats    domain.StatusStats  `json:"stats"`
	ByType   map[string]int      `json:"by_type"`
	Recent   []RegistrationBrief `json:"recent"`

	// Admin only
	Users *UserStats `json:"users,omitempty"`
}

// RegistrationBrief represents a registration summary row
type RegistrationBrief struct {
	ID             string                  `json:"id"`
	Type           domain.RegistrationType `json:"type"`
	Applicant      string                  `json:"applicant"`
	Town           string                  `json:"town"`
	Status         domain.Status           `json:"status"`
	SubmissionDate time.Time               `json:"submission_date"`
}

// UserStats represents account counts for the admin console
type UserStats struct {
	Total    int                 `json:"total"`
	Active   int                 `json:"active"`
	Inactive int                 `json:"inactive"`
	ByRole   map[domain.Role]int `json:"by_role"`
}

// Get returns the dashboard for actor. Counts only cover registrations the
// actor may see.
func (s *DashboardService) Get(ctx context.Context, actor domain.Actor) (*DashboardData, error) {
	summary, err := s.registrations.Dashboard(ctx, actor)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{
		Username: actor.Username,
		Role:     actor.Role,
		Stats:    summary.Stats,
		ByType:   make(map[string]int),
		Recent:   make([]RegistrationBrief, 0, RecentLimit),
	}
	for i, r := range summary.Visible {
		data.ByType[string(r.Type)]++
		if i < RecentLimit {
			data.Recent = append(data.Recent, RegistrationBrief{
				ID:             r.ID,
				Type:           r.Type,
				Applicant:      r.Applicant.FullName,
				Town:           r.Location.Town,
				Status:         r.Status,
				SubmissionDate: r.SubmissionDate,
			})
		}
	}

	if policy.Can(actor.Role, policy.ActionAccessAdminConsole) {
		users, _, err := s.userRepo.List(ctx, "", 0, 0)
		if err != nil {
			return nil, err
		}
		stats := &UserStats{ByRole: make(map[domain.Role]int)}
		for _, u := range users {
			stats.Total++
			if u.Active {
				stats.Active++
			} else {
				stats.Inactive++
			}
			stats.ByRole[u.Role]++
		}
		data.Users = stats
	}

	return data, nil
}
