package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"restosearch/internal/models"
)

// coordsPattern matches a literal "lat, lon" pair such as "4.60971, -74.08175".
var coordsPattern = regexp.MustCompile(`^(-?\d+(\.\d+)?),\s*(-?\d+(\.\d+)?)$`)

// Geocoder resolves free text to candidate coordinates, best match first.
type Geocoder interface {
	Geocode(ctx context.Context, text string) ([]models.Coordinates, error)
}

// ParseCoordinates reports whether term is a literal coordinate pair and
// returns it.
func ParseCoordinates(term string) (models.Coordinates, bool) {
	m := coordsPattern.FindStringSubmatch(term)
	if m == nil {
		return models.Coordinates{}, false
	}
	lat, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	lon, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Lat: lat, Lon: lon}, true
}

// LocationResolver turns a search term into coordinates.
type LocationResolver struct {
	geocoder Geocoder
}

// NewLocationResolver creates a LocationResolver backed by geocoder.
func NewLocationResolver(geocoder Geocoder) *LocationResolver {
	return &LocationResolver{geocoder: geocoder}
}

// Resolve parses term as coordinates when it looks like a pair, and geocodes
// it otherwise. No candidates yields ErrLocationNotFound.
func (r *LocationResolver) Resolve(ctx context.Context, term string) (models.Coordinates, error) {
	if coords, ok := ParseCoordinates(term); ok {
		return coords, nil
	}

	candidates, err := r.geocoder.Geocode(ctx, term)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("%w: %w", ErrExternalService, err)
	}
	if len(candidates) == 0 {
		return models.Coordinates{}, ErrLocationNotFound
	}
	return candidates[0], nil
}
