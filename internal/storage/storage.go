// Package storage provides the persistence contract for users, mood events,
// watchlist items and ratings, with two interchangeable backends: an
// ephemeral in-process store and a PostgreSQL-backed store. The backend is
// chosen once at startup and injected into the services.
package storage

import (
	"context"
	"errors"

	"cinisense-api/internal/models"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user with a taken email.
var ErrDuplicateEmail = errors.New("email already registered")

// Store is the persistence contract shared by both backends.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, email, passwordHash, name string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)

	AddMood(ctx context.Context, userID, mood string) (*models.MoodEvent, error)
	GetUserMoods(ctx context.Context, userID string, limit int) ([]models.MoodEvent, error)

	AddToWatchlist(ctx context.Context, userID string, movieID int) (*models.WatchlistItem, error)
	RemoveFromWatchlist(ctx context.Context, userID string, movieID int) (bool, error)
	GetWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	IsInWatchlist(ctx context.Context, userID string, movieID int) (bool, error)

	AddRating(ctx context.Context, userID string, movieID, rating int) (*models.Rating, error)
	GetUserRatings(ctx context.Context, userID string) ([]models.Rating, error)
	GetRating(ctx context.Context, userID string, movieID int) (*models.Rating, error)
}
