package services

import (
	"context"
	"fmt"

	"restosearch/internal/models"
	"restosearch/internal/repositories"
)

// History is the search history of one user, oldest first.
type History struct {
	Records []models.Search
}

// Empty reports that the user has no recorded searches yet.
func (h History) Empty() bool {
	return len(h.Records) == 0
}

// HistoryService records searches and lists them per user.
type HistoryService struct {
	repo repositories.SearchRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo repositories.SearchRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// Record persists one search request for userID.
func (s *HistoryService) Record(ctx context.Context, term string, radius int, userID string) (*models.Search, error) {
	search := &models.Search{
		SearchTerm: term,
		Radius:     radius,
		UserID:     userID,
	}
	if err := s.repo.Create(ctx, search); err != nil {
		return nil, fmt.Errorf("failed to record search: %w", err)
	}
	return search, nil
}

// ListFor returns the searches of userID in insertion order.
func (s *HistoryService) ListFor(ctx context.Context, userID string) (History, error) {
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return History{}, fmt.Errorf("failed to list search history: %w", err)
	}
	return History{Records: records}, nil
}
