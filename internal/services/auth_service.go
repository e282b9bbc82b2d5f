package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"restosearch/internal/metrics"
	"restosearch/internal/models"
	"restosearch/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// LogoutMessage is returned by a successful logout.
const LogoutMessage = "User logged out successfully"

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterResult is returned by a successful registration.
type RegisterResult struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// AuthService handles registration, login and logout.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokens     *TokenService
	bcryptCost int
	metrics    *metrics.Metrics
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, bcryptCost int, m *metrics.Metrics) *AuthService {
	if bcryptCost < bcrypt.DefaultCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		metrics:    m,
	}
}

// Register creates an active user with the default role and returns a token
// for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	result, err := s.register(ctx, in)
	s.metrics.RecordAuth("register", err == nil)
	return result, err
}

func (s *AuthService) register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrDuplicateIdentity
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashedPassword),
		IsActive: true,
		Roles:    []string{models.RoleUser},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return &RegisterResult{Email: user.Email, Token: token}, nil
}

// Login checks the credentials, reactivates a logged-out user and returns a
// fresh token. Unknown emails and wrong passwords return different errors;
// the HTTP layer renders both the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	token, err := s.login(ctx, email, password)
	s.metrics.RecordAuth("login", err == nil)
	return token, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredential
	}

	if !user.IsActive {
		if err := s.userRepo.SetActive(ctx, user.ID, true); err != nil {
			return "", fmt.Errorf("failed to reactivate user: %w", err)
		}
		slog.InfoContext(ctx, "user reactivated on login", "user_id", user.ID)
	}

	return s.tokens.Issue(user.ID)
}

// Logout marks the user inactive. Tokens already issued stay signed but are
// refused by the access guard while the user is inactive.
func (s *AuthService) Logout(ctx context.Context, userID string) (string, error) {
	err := s.logout(ctx, userID)
	s.metrics.RecordAuth("logout", err == nil)
	if err != nil {
		return "", err
	}
	return LogoutMessage, nil
}

func (s *AuthService) logout(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := s.userRepo.SetActive(ctx, userID, false); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	slog.InfoContext(ctx, "user logged out", "user_id", userID)
	return nil
}
