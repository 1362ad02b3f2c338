package service

import (
	"context"
	"errors"

	"cinisense-api/internal/models"
	"cinisense-api/internal/storage"
)

// ErrAlreadyInWatchlist is returned when the movie is already saved.
var ErrAlreadyInWatchlist = errors.New("movie already in watchlist")

// ErrNotInWatchlist is returned when removing a movie that was never saved.
var ErrNotInWatchlist = errors.New("movie not in watchlist")

// ErrInvalidRating is returned for ratings outside [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// LibraryService handles the per-user watchlist and ratings.
type LibraryService struct {
	store storage.Store
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(store storage.Store) *LibraryService {
	return &LibraryService{store: store}
}

// AddToWatchlist saves a movie for later. Duplicates are rejected.
func (s *LibraryService) AddToWatchlist(ctx context.Context, userID string, movieID int) (*models.WatchlistItem, error) {
	exists, err := s.store.IsInWatchlist(ctx, userID, movieID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInWatchlist
	}
	return s.store.AddToWatchlist(ctx, userID, movieID)
}

// RemoveFromWatchlist deletes a saved movie.
func (s *LibraryService) RemoveFromWatchlist(ctx context.Context, userID string, movieID int) error {
	removed, err := s.store.RemoveFromWatchlist(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInWatchlist
	}
	return nil
}

// Watchlist returns the user's saved movies, newest first.
func (s *LibraryService) Watchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error) {
	return s.store.GetWatchlist(ctx, userID)
}

// IsInWatchlist reports whether the movie is saved.
func (s *LibraryService) IsInWatchlist(ctx context.Context, userID string, movieID int) (bool, error) {
	return s.store.IsInWatchlist(ctx, userID, movieID)
}

// Rate upserts the user's 1-5 rating for a movie.
func (s *LibraryService) Rate(ctx context.Context, userID string, movieID, rating int) (*models.Rating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	return s.store.AddRating(ctx, userID, movieID, rating)
}

// Ratings returns all of the user's ratings.
func (s *LibraryService) Ratings(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.store.GetUserRatings(ctx, userID)
}

// Rating returns the user's rating for one movie, or nil if absent.
func (s *LibraryService) Rating(ctx context.Context, userID string, movieID int) (*models.Rating, error) {
	r, err := s.store.GetRating(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}
