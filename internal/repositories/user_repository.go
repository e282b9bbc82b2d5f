package repositories

import (
	"context"

	"restosearch/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create inserts a new user. A colliding email yields ErrDuplicate.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail returns the user including its password hash.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns the user without its password hash.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// SetActive updates the active flag of an existing user.
	SetActive(ctx context.Context, id string, active bool) error
}
