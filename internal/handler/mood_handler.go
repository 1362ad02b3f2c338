package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cinisense-api/internal/middleware"
	"cinisense-api/internal/models"
	"cinisense-api/internal/service"
)

// MoodHandler handles mood detection and history endpoints.
type MoodHandler struct {
	svc *service.MoodService
}

// NewMoodHandler creates a new MoodHandler.
func NewMoodHandler(svc *service.MoodService) *MoodHandler {
	return &MoodHandler{svc: svc}
}

// Detect infers the caller's mood from free text and records it.
func (h *MoodHandler) Detect(c fiber.Ctx) error {
	var req models.DetectMoodRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Text required for mood detection"})
	}

	result, err := h.svc.Detect(c.Context(), middleware.UserID(c), req.Text)
	if err != nil {
		slog.Error("mood detection failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "mood detection failed"})
	}
	return c.JSON(result)
}

// Add records a manually selected mood.
func (h *MoodHandler) Add(c fiber.Ctx) error {
	var req models.AddMoodRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Mood == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Mood required"})
	}

	event, err := h.svc.Add(c.Context(), middleware.UserID(c), req.Mood)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMood) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "unknown mood label"})
		}
		slog.Error("failed to record mood", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to record mood"})
	}
	return c.JSON(event)
}

// History returns the caller's most recent mood events.
func (h *MoodHandler) History(c fiber.Ctx) error {
	limit := fiber.Query(c, "limit", 10)

	moods, err := h.svc.History(c.Context(), middleware.UserID(c), limit)
	if err != nil {
		slog.Error("failed to get mood history", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get mood history"})
	}
	return c.JSON(moods)
}
