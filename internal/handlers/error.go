package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/haanaihang/server/internal/database"
	"github.com/haanaihang/server/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is the custom error handler for Fiber
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error: message,
	})
}

// serviceError maps service-layer sentinels onto HTTP responses. An
// upstream read failure becomes 502 so clients can distinguish "retry
// later" from an empty result set; a missing document becomes 404.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, database.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrUpstream):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Directory temporarily unavailable"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
