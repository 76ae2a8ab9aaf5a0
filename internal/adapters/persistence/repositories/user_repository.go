package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"landreg-portal/internal/core/domain"
)

// userRepository is the in-memory UserRepository
type userRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

// NewUserRepository creates a new user repository
func NewUserRepository() UserRepository {
	return &userRepository{users: make(map[string]*domain.User)}
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicateKey
	}
	if r.findLocked(func(u *domain.User) bool { return strings.EqualFold(u.Username, user.Username) }) != nil {
		return ErrDuplicateKey
	}
	if r.emailTakenLocked(user.Email, "") {
		return ErrDuplicateEmail
	}
	stored := user.Clone()
	stored.ID = strings.Clone(user.ID)
	r.users[stored.ID] = stored
	return nil
}

// GetByID gets a user by ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return u.Clone(), nil
}

// GetByUsername gets a user by username, case-insensitively
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.findLocked(func(u *domain.User) bool { return strings.EqualFold(u.Username, username) })
	if u == nil {
		return nil, ErrRecordNotFound
	}
	return u.Clone(), nil
}

// GetByEmail gets a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u := r.findLocked(func(u *domain.User) bool { return u.Email != "" && strings.EqualFold(u.Email, email) })
	if u == nil {
		return nil, ErrRecordNotFound
	}
	return u.Clone(), nil
}

func (r *userRepository) emailTakenLocked(email, exceptID string) bool {
	if email == "" {
		return false
	}
	return r.findLocked(func(u *domain.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	}) != nil
}

func (r *userRepository) findLocked(match func(*domain.User) bool) *domain.User {
	for _, u := range r.users {
		if match(u) {
			return u
		}
	}
	return nil
}

// Update updates a user
func (r *userRepository) Update(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.users[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.Username = current.Username
	if r.emailTakenLocked(next.Email, current.ID) {
		return nil, ErrDuplicateEmail
	}
	r.users[current.ID] = next
	return next.Clone(), nil
}

// UpdateMany updates several users atomically
func (r *userRepository) UpdateMany(ctx context.Context, ids []string, fn func(*domain.User) error) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make([]*domain.User, 0, len(ids))
	for _, id := range dedupe(ids) {
		current, ok := r.users[id]
		if !ok {
			return nil, ErrRecordNotFound
		}
		next := current.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		next.ID = current.ID
		next.Username = current.Username
		if r.emailTakenLocked(next.Email, current.ID) {
			return nil, ErrDuplicateEmail
		}
		staged = append(staged, next)
	}

	out := make([]*domain.User, len(staged))
	for i, u := range staged {
		r.users[u.ID] = u
		out[i] = u.Clone()
	}
	return out, nil
}

// DeleteMany deletes several users atomically
func (r *userRepository) DeleteMany(ctx context.Context, ids []string, check func(*domain.User) error) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids = dedupe(ids)
	for _, id := range ids {
		u, ok := r.users[id]
		if !ok {
			return 0, ErrRecordNotFound
		}
		if check != nil {
			if err := check(u.Clone()); err != nil {
				return 0, err
			}
		}
	}
	for _, id := range ids {
		delete(r.users, id)
	}
	return len(ids), nil
}

// List lists users ordered by username with pagination
func (r *userRepository) List(ctx context.Context, search string, offset, limit int) ([]*domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	matched := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		if search == "" ||
			strings.Contains(strings.ToLower(u.Username), search) ||
			strings.Contains(strings.ToLower(u.Name), search) ||
			strings.Contains(strings.ToLower(u.Email), search) {
			matched = append(matched, u)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []*domain.User{}, total, nil
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*domain.User, 0, end-offset)
	for _, u := range matched[offset:end] {
		out = append(out, u.Clone())
	}
	return out, total, nil
}

// ExistsByUsername checks if username exists
func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(func(u *domain.User) bool { return strings.EqualFold(u.Username, username) }) != nil, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
