package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// APIVersion is the contract version of the JSON API. Clients compare it
// against the value they saw at startup and refresh their cached entity
// registry when it changes.
const APIVersion = "1.0.0"

// Version stamps the running API version on every response.
func Version() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Kesher-Version", APIVersion)
		return c.Next()
	}
}
