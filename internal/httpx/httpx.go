// Package httpx provides helper functions for creating HTTP responses.
package httpx

import "github.com/gofiber/fiber/v2"

// JSON writes a JSON response with the given status code and value.
func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// Error writes a JSON error response with the given status code and message.
func Error(c *fiber.Ctx, status int, msg string) error {
	return JSON(c, status, fiber.Map{"error": msg})
}

// OK writes the {"ok":true} success envelope.
func OK(c *fiber.Ctx) error {
	return JSON(c, fiber.StatusOK, fiber.Map{"ok": true})
}
