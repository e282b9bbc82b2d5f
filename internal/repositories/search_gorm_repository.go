package repositories

import (
	"context"
	"fmt"

	"restosearch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSearchRepository is a GORM implementation of SearchRepository.
type GORMSearchRepository struct {
	db *gorm.DB
}

// NewGORMSearchRepository creates a new instance of GORMSearchRepository.
func NewGORMSearchRepository(db *gorm.DB) *GORMSearchRepository {
	return &GORMSearchRepository{
		db: db,
	}
}

// Create inserts a search row. IDs are UUIDv7 so they sort by creation time.
func (r *GORMSearchRepository) Create(ctx context.Context, search *models.Search) error {
	if search.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate search id: %w", err)
		}
		search.ID = id.String()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(search).Error; err != nil {
		return fmt.Errorf("failed to create search: %w", err)
	}
	return nil
}

// ListByUser retrieves the searches owned by userID, oldest first.
func (r *GORMSearchRepository) ListByUser(ctx context.Context, userID string) ([]models.Search, error) {
	var searches []models.Search
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&searches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list searches for user %s: %w", userID, err)
	}
	return searches, nil
}
