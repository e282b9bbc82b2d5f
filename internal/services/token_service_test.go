package services_test

import (
	"testing"
	"time"

	"restosearch/internal/config"
	"restosearch/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := newTokenService()

	token, err := tokens.Issue("user-123")
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, 2*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Now()
	tokens := newTokenService().WithClock(func() time.Time { return issuedAt })

	token, err := tokens.Issue("user-123")
	require.NoError(t, err)

	later := tokens.WithClock(func() time.Time { return issuedAt.Add(time.Hour + 59*time.Minute) })
	_, err = later.Verify(token)
	assert.NoError(t, err)

	expired := tokens.WithClock(func() time.Time { return issuedAt.Add(2*time.Hour + time.Minute) })
	_, err = expired.Verify(token)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	tokens := newTokenService()

	// Malformed
	_, err := tokens.Verify("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Wrong secret
	other := services.NewTokenService(&config.Config{JWTSecret: "another_secret"})
	foreign, err := other.Issue("user-123")
	require.NoError(t, err)
	_, err = tokens.Verify(foreign)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Unexpected algorithm with the right secret
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, services.Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(hs512)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Missing expiry
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{UserID: "user-123"}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(noExp)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	// Missing user id
	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	_, err = tokens.Verify(noUser)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}
