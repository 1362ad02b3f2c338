// Package handler contains the Fiber HTTP handlers. Handlers validate
// request shape, resolve the caller from the auth middleware, delegate to
// the services and map failures to status codes.
package handler

import "github.com/gofiber/fiber/v3"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health returns service health status.
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "cinisense-api",
	})
}
