package handler

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"cinisense-api/internal/middleware"
	"cinisense-api/internal/service"
)

// MovieHandler handles the catalog endpoints.
type MovieHandler struct {
	svc *service.MovieService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Trending returns this week's trending movies.
func (h *MovieHandler) Trending(c fiber.Ctx) error {
	return c.JSON(h.svc.Trending(c.Context()))
}

// Popular returns the current popular movies.
func (h *MovieHandler) Popular(c fiber.Ctx) error {
	return c.JSON(h.svc.Popular(c.Context()))
}

// TopRated returns the top-rated movies.
func (h *MovieHandler) TopRated(c fiber.Ctx) error {
	return c.JSON(h.svc.TopRated(c.Context()))
}

// Search returns movies matching the q parameter.
func (h *MovieHandler) Search(c fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Query parameter required"})
	}
	return c.JSON(h.svc.Search(c.Context(), query))
}

// ByMood returns movies matching the mood parameter.
func (h *MovieHandler) ByMood(c fiber.Ctx) error {
	mood := c.Query("mood")
	if mood == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Mood parameter required"})
	}
	return c.JSON(h.svc.ByMood(c.Context(), mood))
}

// Recommend returns movies matching the caller's favorite genres.
func (h *MovieHandler) Recommend(c fiber.Ctx) error {
	movies, err := h.svc.Recommend(c.Context(), middleware.UserID(c))
	if err != nil {
		slog.Error("failed to build recommendations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to build recommendations"})
	}
	return c.JSON(movies)
}

// Details returns detailed info for one movie.
func (h *MovieHandler) Details(c fiber.Ctx) error {
	movieID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid movie ID"})
	}

	detail := h.svc.Details(c.Context(), movieID)
	if detail == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Movie not found"})
	}
	return c.JSON(detail)
}

// Genres returns the full genre list.
func (h *MovieHandler) Genres(c fiber.Ctx) error {
	return c.JSON(h.svc.Genres(c.Context()))
}
