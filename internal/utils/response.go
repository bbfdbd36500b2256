package utils

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse sends the standard error body: {"error": message}
func ErrorResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// OKResponse sends the standard mutation acknowledgment: {"ok": true}
func OKResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error string `json:"error"`
}

// OKResponseStruct defines the schema for mutation acknowledgments
type OKResponseStruct struct {
	Ok bool `json:"ok"`
}
