// Package geoapify is a small client for the Geoapify geocoding and places
// APIs.
package geoapify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restosearch/internal/config"
	"restosearch/internal/metrics"
	"restosearch/internal/models"
)

const (
	opGeocode = "geocode"
	opPlaces  = "places"
)

// APIError is returned when Geoapify answers with a non-2xx status.
type APIError struct {
	Operation string
	Status    int
	Body      string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("geoapify %s returned %d: %s", e.Operation, e.Status, e.Body)
}

// Client calls Geoapify over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

// NewClient creates a Client from the Geoapify section of cfg.
func NewClient(cfg *config.Config, m *metrics.Metrics) *Client {
	timeout := cfg.GeoTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.GeoBaseURL,
		apiKey:     cfg.GeoAPIKey,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties placeProperties `json:"properties"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"` // [lon, lat]
	} `json:"geometry"`
}

type placeProperties struct {
	PlaceID      string          `json:"place_id"`
	Name         *string         `json:"name"`
	Formatted    *string         `json:"formatted"`
	Street       *string         `json:"street"`
	HouseNumber  *string         `json:"housenumber"`
	Suburb       *string         `json:"suburb"`
	City         *string         `json:"city"`
	State        *string         `json:"state"`
	Postcode     *string         `json:"postcode"`
	Country      *string         `json:"country"`
	Phone        *string         `json:"phone"`
	Website      *string         `json:"website"`
	Categories   []string        `json:"categories"`
	Distance     *float64        `json:"distance"`
	OpeningHours *string         `json:"opening_hours"`
	Wheelchair   json.RawMessage `json:"wheelchair"`
}

func (f feature) point() (models.Coordinates, bool) {
	if len(f.Geometry.Coordinates) < 2 {
		return models.Coordinates{}, false
	}
	return models.Coordinates{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]}, true
}

// Geocode resolves free text to candidate coordinates, most relevant first.
func (c *Client) Geocode(ctx context.Context, text string) ([]models.Coordinates, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("apiKey", c.apiKey)

	var fc featureCollection
	if err := c.get(ctx, opGeocode, "/v1/geocode/search", params, &fc); err != nil {
		return nil, err
	}

	candidates := make([]models.Coordinates, 0, len(fc.Features))
	for _, f := range fc.Features {
		if p, ok := f.point(); ok {
			candidates = append(candidates, p)
		}
	}
	return candidates, nil
}

// SearchPlaces lists places of q.Category within q.Radius meters of q.Center.
func (c *Client) SearchPlaces(ctx context.Context, q models.PlaceQuery) ([]models.Restaurant, error) {
	if q.Category == "" {
		q.Category = models.DefaultPlaceCategory
	}
	if q.Limit <= 0 {
		q.Limit = models.DefaultPlaceLimit
	}

	params := url.Values{}
	params.Set("categories", q.Category)
	params.Set("filter", fmt.Sprintf("circle:%s,%s,%d", formatFloat(q.Center.Lon), formatFloat(q.Center.Lat), q.Radius))
	params.Set("limit", strconv.Itoa(q.Limit))
	params.Set("apiKey", c.apiKey)

	var fc featureCollection
	if err := c.get(ctx, opPlaces, "/v2/places", params, &fc); err != nil {
		return nil, err
	}

	restaurants := make([]models.Restaurant, 0, len(fc.Features))
	for _, f := range fc.Features {
		restaurants = append(restaurants, normalize(f))
	}
	return restaurants, nil
}

func normalize(f feature) models.Restaurant {
	p := f.Properties
	location, _ := f.point()
	return models.Restaurant{
		ID:       p.PlaceID,
		Name:     p.Name,
		Location: location,
		Address: models.Address{
			Formatted:   p.Formatted,
			Street:      p.Street,
			HouseNumber: p.HouseNumber,
			Suburb:      p.Suburb,
			City:        p.City,
			State:       p.State,
			Postcode:    p.Postcode,
			Country:     p.Country,
		},
		Contact: models.Contact{
			Phone:   p.Phone,
			Website: p.Website,
		},
		Categories:   p.Categories,
		Distance:     p.Distance,
		OpeningHours: p.OpeningHours,
		Wheelchair:   p.Wheelchair,
	}
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build geoapify %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordExternal(op, 0, time.Since(start))
		// The URL carries the API key; keep it out of the error.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("geoapify %s request failed: %w", op, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordExternal(op, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("failed to read geoapify %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Operation: op, Status: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode geoapify %s response: %w", op, err)
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
