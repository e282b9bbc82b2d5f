package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restosearch/internal/models"

	"github.com/google/uuid"
)

// MockSearchRepository is an in-memory implementation of SearchRepository.
// Rows are kept in a slice so insertion order is preserved.
type MockSearchRepository struct {
	searches []models.Search
	mu       sync.RWMutex
}

// NewMockSearchRepository creates a new instance of MockSearchRepository.
func NewMockSearchRepository() *MockSearchRepository {
	return &MockSearchRepository{}
}

// Create appends a search.
func (r *MockSearchRepository) Create(_ context.Context, search *models.Search) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if search.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate search id: %w", err)
		}
		search.ID = id.String()
	}
	search.CreatedAt = time.Now()
	r.searches = append(r.searches, *search)
	return nil
}

// ListByUser returns the searches of userID in insertion order.
func (r *MockSearchRepository) ListByUser(_ context.Context, userID string) ([]models.Search, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Search, 0)
	for _, s := range r.searches {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}
