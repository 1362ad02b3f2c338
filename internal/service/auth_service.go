package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"cinisense-api/internal/auth"
	"cinisense-api/internal/models"
	"cinisense-api/internal/storage"
)

// ErrEmailTaken is returned when registering with an email already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials is returned for both unknown email and wrong
// password, so the two cases are indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserNotFound is returned when the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

const bcryptCost = 10

// AuthService handles registration, login and profile management.
type AuthService struct {
	store storage.Store
	jwt   *auth.Manager
}

// NewAuthService creates a new AuthService.
func NewAuthService(store storage.Store, jwt *auth.Manager) *AuthService {
	return &AuthService{store: store, jwt: jwt}
}

// Register creates a user with a hashed password and issues a session token.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, req.Email, string(hash), req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		User: models.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
		},
		Token: token,
	}, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	slog.Info("login attempt", "email", req.Email)

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}

	slog.Info("login successful", "email", req.Email)
	return &models.AuthResponse{
		User: models.UserSummary{
			ID:             user.ID,
			Email:          user.Email,
			Name:           user.Name,
			FavoriteGenres: user.FavoriteGenres,
		},
		Token: token,
	}, nil
}

// Profile returns the caller's profile.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.UserSummary, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &models.UserSummary{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		FavoriteGenres: user.FavoriteGenres,
	}, nil
}

// UpdateProfile changes name and favorite genres only.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.UserSummary, error) {
	user, err := s.store.UpdateUser(ctx, userID, models.ProfileUpdate{
		Name:           req.Name,
		FavoriteGenres: req.FavoriteGenres,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &models.UserSummary{
		ID:             user.ID,
		Email:          user.Email,
		Name:           user.Name,
		FavoriteGenres: user.FavoriteGenres,
	}, nil
}
