package handlers

import (
	"errors"
	"log/slog"

	"restosearch/internal/middleware"
	"restosearch/internal/models"
	"restosearch/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SearchHandler handles restaurant searches and the search history.
type SearchHandler struct {
	service  *services.SearchService
	guard    *middleware.AccessGuard
	validate *validator.Validate
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *services.SearchService, guard *middleware.AccessGuard) *SearchHandler {
	return &SearchHandler{
		service:  service,
		guard:    guard,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the search routes with the Fiber app.
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/transaction", h.guard.Require(middleware.Roles(models.RoleUser)))
	routes.Post("/search", h.HandleSearch)
	routes.Get("/history", h.HandleHistory)
}

// SearchRequest represents the request body for a search. Radius is in
// meters.
type SearchRequest struct {
	SearchTerm string `json:"searchTerm" validate:"required,min=1,max=30"`
	Radius     *int   `json:"radius" validate:"omitempty,min=1,max=50000"`
}

type searchLocation struct {
	Query            string             `json:"query"`
	ResolvedLocation models.Coordinates `json:"resolvedLocation"`
}

type searchResponse struct {
	SearchLocation searchLocation      `json:"searchLocation"`
	Count          int                 `json:"count"`
	Restaurants    []models.Restaurant `json:"restaurants"`
}

// HandleSearch records the search and returns the restaurants around the
// resolved location.
func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	var req SearchRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	in := services.SearchInput{Term: req.SearchTerm}
	if req.Radius != nil {
		in.Radius = *req.Radius
	}

	outcome, err := h.service.Search(c.UserContext(), user.ID, in)
	if err != nil {
		if errors.Is(err, services.ErrExternalService) {
			slog.ErrorContext(c.UserContext(), "restaurant search failed", "user_id", user.ID, "error", err)
			return fiber.NewError(fiber.StatusBadGateway, "Restaurant search is temporarily unavailable")
		}
		return err
	}

	if !outcome.Found() {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"error":       "LocationNotFound",
			"restaurants": []models.Restaurant{},
		})
	}

	return c.Status(fiber.StatusCreated).JSON(searchResponse{
		SearchLocation: searchLocation{
			Query:            outcome.Query,
			ResolvedLocation: *outcome.Location,
		},
		Count:       len(outcome.Restaurants),
		Restaurants: outcome.Restaurants,
	})
}

// HandleHistory lists the searches of the authenticated user.
func (h *SearchHandler) HandleHistory(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}

	history, err := h.service.History(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	if history.Empty() {
		return c.JSON(fiber.Map{"message": "no records"})
	}
	return c.JSON(history.Records)
}
