package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"landreg-portal/internal/core/domain"
)

// registrationRepository is the in-memory RegistrationRepository. Records
// are kept newest first and never leave the repository by reference.
type registrationRepository struct {
	mu      sync.RWMutex
	records []*domain.Registration
	byID    map[string]*domain.Registration
}

// NewRegistrationRepository creates a new, empty registration repository
func NewRegistrationRepository() RegistrationRepository {
	return &registrationRepository{byID: make(map[string]*domain.Registration)}
}

// List returns all registrations
func (r *registrationRepository) List(ctx context.Context) ([]*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Registration, len(r.records))
	for i, reg := range r.records {
		out[i] = reg.Clone()
	}
	return out, nil
}

// GetByID gets a registration by ID
func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return reg.Clone(), nil
}

// CreateWithSequence assigns the next free sequence for reg.Type and stores it
func (r *registrationRepository) CreateWithSequence(ctx context.Context, reg *domain.Registration, newID func(seq int) string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := 1
	for _, existing := range r.records {
		if existing.Type == reg.Type {
			seq++
		}
	}
	id := newID(seq)
	for r.byID[id] != nil {
		seq++
		id = newID(seq)
	}

	reg.ID = id
	r.insertLocked(reg.Clone())
	return nil
}

// Put stores a registration with a preassigned ID
func (r *registrationRepository) Put(ctx context.Context, reg *domain.Registration) error {
	if reg.ID == "" {
		return fmt.Errorf("put registration: empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byID[reg.ID] != nil {
		return ErrDuplicateKey
	}
	r.insertLocked(reg.Clone())
	return nil
}

func (r *registrationRepository) insertLocked(reg *domain.Registration) {
	reg.ID = strings.Clone(reg.ID)
	r.records = append([]*domain.Registration{reg}, r.records...)
	r.byID[reg.ID] = reg
}

// Update updates a registration in place
func (r *registrationRepository) Update(ctx context.Context, id string, fn func(*domain.Registration) error) (*domain.Registration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[id]
	if !ok {
		return nil, ErrRecordNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID

	for i, reg := range r.records {
		if reg.ID == id {
			r.records[i] = next
			break
		}
	}
	r.byID[current.ID] = next
	return next.Clone(), nil
}

// Delete removes a registration
func (r *registrationRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	for i, reg := range r.records {
		if reg.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			break
		}
	}
	return true, nil
}
