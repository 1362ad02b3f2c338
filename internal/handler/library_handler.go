package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"cinisense-api/internal/middleware"
	"cinisense-api/internal/models"
	"cinisense-api/internal/service"
)

// LibraryHandler handles the watchlist and ratings endpoints.
type LibraryHandler struct {
	svc *service.LibraryService
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(svc *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// Watchlist returns the caller's saved movies, newest first.
func (h *LibraryHandler) Watchlist(c fiber.Ctx) error {
	items, err := h.svc.Watchlist(c.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error("failed to get watchlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get watchlist"})
	}
	return c.JSON(items)
}

// AddToWatchlist saves a movie for later.
func (h *LibraryHandler) AddToWatchlist(c fiber.Ctx) error {
	var req models.AddWatchlistRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MovieID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "movieId required"})
	}

	item, err := h.svc.AddToWatchlist(c.Context(), middleware.UserID(c), req.MovieID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyInWatchlist) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Movie already in watchlist"})
		}
		slog.Error("failed to add to watchlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to add to watchlist"})
	}
	return c.JSON(item)
}

// RemoveFromWatchlist deletes a saved movie.
func (h *LibraryHandler) RemoveFromWatchlist(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	if err := h.svc.RemoveFromWatchlist(c.Context(), middleware.UserID(c), movieID); err != nil {
		if errors.Is(err, service.ErrNotInWatchlist) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Movie not in watchlist"})
		}
		slog.Error("failed to remove from watchlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to remove from watchlist"})
	}
	return c.JSON(fiber.Map{"success": true})
}

// CheckWatchlist reports whether a movie is in the caller's watchlist.
func (h *LibraryHandler) CheckWatchlist(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	inWatchlist, err := h.svc.IsInWatchlist(c.Context(), middleware.UserID(c), movieID)
	if err != nil {
		slog.Error("failed to check watchlist", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to check watchlist"})
	}
	return c.JSON(fiber.Map{"inWatchlist": inWatchlist})
}

// Rate upserts the caller's rating for a movie.
func (h *LibraryHandler) Rate(c fiber.Ctx) error {
	var req models.AddRatingRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.MovieID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "movieId required"})
	}

	rating, err := h.svc.Rate(c.Context(), middleware.UserID(c), req.MovieID, req.Rating)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Rating must be between 1 and 5"})
		}
		slog.Error("failed to save rating", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to save rating"})
	}
	return c.JSON(rating)
}

// Ratings returns all of the caller's ratings.
func (h *LibraryHandler) Ratings(c fiber.Ctx) error {
	ratings, err := h.svc.Ratings(c.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error("failed to get ratings", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get ratings"})
	}
	return c.JSON(ratings)
}

// Rating returns the caller's rating for one movie, or null.
func (h *LibraryHandler) Rating(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("movieId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	rating, err := h.svc.Rating(c.Context(), middleware.UserID(c), movieID)
	if err != nil {
		slog.Error("failed to get rating", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get rating"})
	}
	if rating == nil {
		return c.JSON(nil)
	}
	return c.JSON(rating)
}
