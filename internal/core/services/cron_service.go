package services

import (
	"context"
	"fmt"
	"time"

	"landreg-portal/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger removes expired authentication state
type Purger interface {
	PurgeExpired(ctx context.Context) (sessions, tokens int, err error)
}

// CronService runs the portal's scheduled housekeeping
type CronService struct {
	cron     *cron.Cron
	purger   Purger
	schedule string
	log      *zap.Logger
}

// NewCronService creates the scheduler. schedule accepts standard cron
// expressions and descriptors such as "@every 15m".
func NewCronService(purger Purger, schedule string, log *zap.Logger) (*CronService, error) {
	s := &CronService{
		cron:     cron.New(),
		purger:   purger,
		schedule: schedule,
		log:      logger.OrNop(log).Named("cron"),
	}
	if _, err := s.cron.AddFunc(schedule, s.PurgeSessions); err != nil {
		return nil, fmt.Errorf("invalid SESSION_PURGE_SCHEDULE %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *CronService) Start() {
	s.cron.Start()
	s.log.Info("cron started", zap.String("session_purge", s.schedule))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron stopped")
}

// PurgeSessions drops expired sessions and recovery tokens
func (s *CronService) PurgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sessions, tokens, err := s.purger.PurgeExpired(ctx)
	if err != nil {
		s.log.Error("session purge failed", zap.Error(err))
		return
	}
	if sessions > 0 || tokens > 0 {
		s.log.Info("expired auth state purged", zap.Int("sessions", sessions), zap.Int("recovery_tokens", tokens))
	}
}
