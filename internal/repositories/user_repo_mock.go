package repositories

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"restosearch/internal/models"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users   map[string]models.User
	byEmail map[string]string
	mu      sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:   make(map[string]models.User),
		byEmail: make(map[string]string),
	}
}

// Create adds a new user. The email index is checked under the write lock.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return fmt.Errorf("user with email %s: %w", user.Email, ErrDuplicate)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	stored.Roles = slices.Clone(user.Roles)
	r.users[user.ID] = stored
	r.byEmail[user.Email] = user.ID
	return nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user with email %s: %w", email, ErrNotFound)
	}
	user := r.copyOf(id)
	return &user, nil
}

// GetByID returns a user by ID with the password hash cleared.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.users[id]; !ok {
		return nil, fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	user := r.copyOf(id)
	user.Password = ""
	return &user, nil
}

// SetActive updates the active flag of a user.
func (r *MockUserRepository) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user with ID %s: %w", id, ErrNotFound)
	}
	user.IsActive = active
	user.UpdatedAt = time.Now()
	r.users[id] = user
	return nil
}

// Count returns the number of stored users.
func (r *MockUserRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func (r *MockUserRepository) copyOf(id string) models.User {
	user := r.users[id]
	user.Roles = slices.Clone(user.Roles)
	return user
}
