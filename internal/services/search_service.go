package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"restosearch/internal/metrics"
	"restosearch/internal/models"
)

// SearchRecordedEventType is the type of the event sent after a search is
// stored.
const SearchRecordedEventType = "search.recorded"

// PlaceFinder lists places around a point.
type PlaceFinder interface {
	SearchPlaces(ctx context.Context, q models.PlaceQuery) ([]models.Restaurant, error)
}

// EventPublisher sends domain events to a broker.
type EventPublisher interface {
	Publish(eventType string, payload any) error
}

// SearchInput carries the fields of a search request.
type SearchInput struct {
	Term   string
	Radius int // meters; zero means models.DefaultRadius
}

// SearchOutcome is the result of a search. Location is nil when the term
// could not be resolved; Restaurants is then empty.
type SearchOutcome struct {
	Query       string
	Location    *models.Coordinates
	Restaurants []models.Restaurant
}

// Found reports whether the search term resolved to a location.
func (o *SearchOutcome) Found() bool {
	return o.Location != nil
}

// SearchRecordedEvent is the payload of a search.recorded event.
type SearchRecordedEvent struct {
	SearchID   string    `json:"searchId"`
	UserID     string    `json:"userId"`
	SearchTerm string    `json:"searchTerm"`
	Radius     int       `json:"radius"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SearchService runs restaurant searches and keeps the search history.
type SearchService struct {
	history  *HistoryService
	resolver *LocationResolver
	places   PlaceFinder
	events   EventPublisher // optional
	metrics  *metrics.Metrics
}

// NewSearchService creates a new SearchService. events may be nil.
func NewSearchService(history *HistoryService, resolver *LocationResolver, places PlaceFinder, events EventPublisher, m *metrics.Metrics) *SearchService {
	return &SearchService{
		history:  history,
		resolver: resolver,
		places:   places,
		events:   events,
		metrics:  m,
	}
}

// Search records the request, resolves the term and looks up restaurants
// around it. The record is written before any external call, so it survives
// a downstream failure.
func (s *SearchService) Search(ctx context.Context, userID string, in SearchInput) (*SearchOutcome, error) {
	radius := in.Radius
	if radius <= 0 {
		radius = models.DefaultRadius
	}

	record, err := s.history.Record(ctx, in.Term, radius, userID)
	if err != nil {
		s.metrics.RecordSearch("error")
		return nil, err
	}
	s.publishRecorded(ctx, record)

	coords, err := s.resolver.Resolve(ctx, in.Term)
	if err != nil {
		if errors.Is(err, ErrLocationNotFound) {
			s.metrics.RecordSearch("not_found")
			return &SearchOutcome{Query: in.Term, Restaurants: []models.Restaurant{}}, nil
		}
		s.metrics.RecordSearch("error")
		return nil, err
	}

	restaurants, err := s.places.SearchPlaces(ctx, models.PlaceQuery{
		Center:   coords,
		Radius:   radius,
		Category: models.DefaultPlaceCategory,
		Limit:    models.DefaultPlaceLimit,
	})
	if err != nil {
		s.metrics.RecordSearch("error")
		return nil, fmt.Errorf("%w: %w", ErrExternalService, err)
	}

	s.metrics.RecordSearch("found")
	return &SearchOutcome{
		Query:       in.Term,
		Location:    &coords,
		Restaurants: restaurants,
	}, nil
}

// History returns the searches of userID in insertion order.
func (s *SearchService) History(ctx context.Context, userID string) (History, error) {
	return s.history.ListFor(ctx, userID)
}

func (s *SearchService) publishRecorded(ctx context.Context, record *models.Search) {
	if s.events == nil {
		return
	}
	event := SearchRecordedEvent{
		SearchID:   record.ID,
		UserID:     record.UserID,
		SearchTerm: record.SearchTerm,
		Radius:     record.Radius,
		CreatedAt:  record.CreatedAt,
	}
	if err := s.events.Publish(SearchRecordedEventType, event); err != nil {
		s.metrics.RecordPublishFailure()
		slog.WarnContext(ctx, "failed to publish search event", "search_id", record.ID, "error", err)
	}
}
