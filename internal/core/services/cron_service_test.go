package services

import (
	"context"
	"errors"
	"testing"
)

type stubPurger struct {
	calls int
	err   error
}

func (p *stubPurger) PurgeExpired(ctx context.Context) (int, int, error) {
	p.calls++
	return 3, 1, p.err
}

func TestNewCronServiceRejectsBadSchedule(t *testing.T) {
	if _, err := NewCronService(&stubPurger{}, "every now and then", nil); err == nil {
		t.Fatal("NewCronService() accepted an invalid schedule")
	}
}

func TestCronServicePurgeSessions(t *testing.T) {
	purger := &stubPurger{}
	svc, err := NewCronService(purger, "@every 15m", nil)
	if err != nil {
		t.Fatalf("NewCronService() error = %v", err)
	}

	svc.Start()
	svc.PurgeSessions()
	purger.err = errors.New("store offline")
	svc.PurgeSessions()
	svc.Stop()

	if purger.calls != 2 {
		t.Errorf("purger called %d times, want 2", purger.calls)
	}
}
