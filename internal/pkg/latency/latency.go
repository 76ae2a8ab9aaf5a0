// Package latency simulates the round trip of the backend the portal's mock
// services stand in for.
package latency

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"landreg-portal/internal/core/domain"
)

// Simulator delays calls and can inject transient failures. The zero value
// adds no delay and never fails.
type Simulator struct {
	delay       time.Duration
	failureRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a simulator. failureRate is clamped to [0, 1].
func New(delay time.Duration, failureRate float64) *Simulator {
	if failureRate < 0 {
		failureRate = 0
	}
	if failureRate > 1 {
		failureRate = 1
	}
	return &Simulator{
		delay:       delay,
		failureRate: failureRate,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Wait blocks for the configured delay. It returns an error wrapping
// domain.ErrTransient when ctx is done first or a failure is injected.
// Callers must call Wait before touching any store so an abandoned request
// leaves no partial effect.
func (s *Simulator) Wait(ctx context.Context) error {
	if s == nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrTransient, err)
		}
		return nil
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrTransient, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransient, err)
	}

	if s.failureRate > 0 && s.roll() < s.failureRate {
		return fmt.Errorf("%w: mock backend unreachable", domain.ErrTransient)
	}
	return nil
}

func (s *Simulator) roll() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
