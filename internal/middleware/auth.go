package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"cinisense-api/internal/auth"
)

// UserIDKey is the Locals key under which the authenticated user id is stored.
const UserIDKey = "user_id"

// RequireAuth validates the bearer token and stores the caller's user id in
// request locals. Missing or invalid credentials yield 401.
func RequireAuth(jwtManager *auth.Manager) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := jwtManager.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by RequireAuth.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
