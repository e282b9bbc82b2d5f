package repositories

import (
	"context"

	"restosearch/internal/models"
)

// SearchRepository defines the interface for search history data access.
type SearchRepository interface {
	Create(ctx context.Context, search *models.Search) error
	// ListByUser returns the searches of one user in insertion order.
	ListByUser(ctx context.Context, userID string) ([]models.Search, error)
}
