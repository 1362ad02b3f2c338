package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"cinisense-api/internal/middleware"
	"cinisense-api/internal/models"
	"cinisense-api/internal/service"
)

// AuthHandler handles registration, login and profile endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register creates a new account and returns a session token.
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "email and password are required"})
	}

	resp, err := h.svc.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "Email already registered"})
		}
		slog.Error("registration failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "registration failed"})
	}

	return c.JSON(resp)
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "email and password are required"})
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "Invalid credentials"})
		}
		slog.Error("login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "login failed"})
	}

	return c.JSON(resp)
}

// Profile returns the caller's profile.
func (h *AuthHandler) Profile(c fiber.Ctx) error {
	profile, err := h.svc.Profile(c.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
		}
		slog.Error("failed to get profile", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to get profile"})
	}
	return c.JSON(profile)
}

// UpdateProfile changes the caller's name and favorite genres.
func (h *AuthHandler) UpdateProfile(c fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	profile, err := h.svc.UpdateProfile(c.Context(), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "User not found"})
		}
		slog.Error("failed to update profile", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to update profile"})
	}
	return c.JSON(profile)
}
