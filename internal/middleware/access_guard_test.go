package middleware_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"restosearch/internal/config"
	"restosearch/internal/middleware"
	"restosearch/internal/models"
	"restosearch/internal/repositories"
	"restosearch/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type guardFixture struct {
	users  *repositories.MockUserRepository
	tokens *services.TokenService
	guard  *middleware.AccessGuard
}

func newGuardFixture() *guardFixture {
	users := repositories.NewMockUserRepository()
	tokens := services.NewTokenService(&config.Config{JWTSecret: "test_jwt_secret"})
	return &guardFixture{
		users:  users,
		tokens: tokens,
		guard:  middleware.NewAccessGuard(tokens, users),
	}
}

func (f *guardFixture) createUser(t *testing.T, active bool, roles ...string) (*models.User, string) {
	t.Helper()
	user := &models.User{
		Name:     "Guarded",
		Email:    uuid.NewString() + "@example.com",
		Password: "hash",
		IsActive: true,
		Roles:    roles,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	if !active {
		require.NoError(t, f.users.SetActive(context.Background(), user.ID, false))
	}
	token, err := f.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture()

	active, activeToken := f.createUser(t, true, models.RoleUser)
	_, inactiveToken := f.createUser(t, false, models.RoleUser)
	_, adminToken := f.createUser(t, true, models.RoleAdmin)
	ghostToken, err := f.tokens.Issue("no-such-user")
	require.NoError(t, err)
	expiredToken, err := f.tokens.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }).Issue(active.ID)
	require.NoError(t, err)

	userPolicy := middleware.Roles(models.RoleUser)

	tests := []struct {
		name    string
		header  string
		policy  middleware.Policy
		wantErr error
	}{
		{"valid user", "Bearer " + activeToken, userPolicy, nil},
		{"empty policy", "Bearer " + activeToken, nil, nil},
		{"lower-case scheme", "bearer " + activeToken, userPolicy, nil},
		{"upper-case scheme", "BEARER " + activeToken, userPolicy, nil},
		{"missing header", "", userPolicy, services.ErrUnauthorized},
		{"wrong scheme", "Basic " + activeToken, userPolicy, services.ErrUnauthorized},
		{"bearer without token", "Bearer ", userPolicy, services.ErrUnauthorized},
		{"garbage token", "Bearer not.a.token", userPolicy, services.ErrUnauthorized},
		{"expired token", "Bearer " + expiredToken, userPolicy, services.ErrUnauthorized},
		{"unknown user", "Bearer " + ghostToken, userPolicy, services.ErrUnauthorized},
		{"inactive user", "Bearer " + inactiveToken, userPolicy, services.ErrUnauthorized},
		{"inactive user empty policy", "Bearer " + inactiveToken, nil, services.ErrUnauthorized},
		{"disjoint roles", "Bearer " + adminToken, userPolicy, services.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := f.guard.Authorize(ctx, tt.header, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
		})
	}
}

func TestAuthorize_LogoutRevokesExistingToken(t *testing.T) {
	ctx := context.Background()
	f := newGuardFixture()
	user, token := f.createUser(t, true, models.RoleUser)

	_, err := f.guard.Authorize(ctx, "Bearer "+token, middleware.Roles(models.RoleUser))
	require.NoError(t, err)

	require.NoError(t, f.users.SetActive(ctx, user.ID, false))
	_, err = f.guard.Authorize(ctx, "Bearer "+token, middleware.Roles(models.RoleUser))
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestRequire(t *testing.T) {
	f := newGuardFixture()
	user, userToken := f.createUser(t, true, models.RoleUser)
	_, adminToken := f.createUser(t, true, models.RoleAdmin)

	app := fiber.New()
	app.Get("/protected", f.guard.Require(middleware.Roles(models.RoleUser)), func(c *fiber.Ctx) error {
		current, ok := middleware.CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": current.ID})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"bad token", "Bearer junk", fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + adminToken, fiber.StatusForbidden},
		{"allowed", "Bearer " + userToken, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			if tt.wantStatus == fiber.StatusOK {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, user.ID, body["id"])
			}
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		_, ok := middleware.CurrentUser(c)
		return c.JSON(fiber.Map{"ok": ok})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["ok"])
}
