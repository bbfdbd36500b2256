package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"
)

// Locals keys populated by the session middleware.
const (
	LocalsUserID   = "userId"
	LocalsUserName = "userName"
	LocalsUserRole = "userRole"
)

// Session reads the session cookie when present and stores the user identity
// in the request context. It never rejects; anonymous requests pass through
// so attribution stays best-effort on public routes.
func Session(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(cfg.SessionCookie)
		if token == "" {
			return c.Next()
		}

		claims, err := services.VerifySession(cfg, token)
		if err != nil {
			// Expired or forged cookie; treat as anonymous.
			return c.Next()
		}

		c.Locals(LocalsUserID, claims.Subject)
		c.Locals(LocalsUserName, claims.Name)
		c.Locals(LocalsUserRole, claims.Role)
		return c.Next()
	}
}

// AuthRequired rejects requests that carry no valid session.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return &types.AppError{
				Code:    fiber.StatusUnauthorized,
				Message: "נדרשת התחברות",
				Type:    types.ErrTypeValidation,
			}
		}
		return c.Next()
	}
}

// AdminRequired rejects requests whose session is not an admin session.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return &types.AppError{
				Code:    fiber.StatusUnauthorized,
				Message: "נדרשת התחברות",
				Type:    types.ErrTypeValidation,
			}
		}
		if role, _ := c.Locals(LocalsUserRole).(string); role != "admin" {
			return &types.AppError{
				Code:    fiber.StatusForbidden,
				Message: "נדרשות הרשאות מנהל",
				Type:    types.ErrTypeValidation,
			}
		}
		return c.Next()
	}
}

// UserID returns the authenticated user's id, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}

// UserIDPtr returns the authenticated user's id as a nullable pointer for
// createdBy attribution columns.
func UserIDPtr(c *fiber.Ctx) *string {
	if id := UserID(c); id != "" {
		return &id
	}
	return nil
}
