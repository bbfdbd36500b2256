package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/logging"
	"github.com/keshercrm/kesher-crm/internal/types"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"go.uber.org/zap"
)

// serviceError maps a service-layer error onto the standard error body.
// Known AppErrors keep their status and localized message; anything else is
// logged and collapsed to a generic 500 so internals do not leak to clients.
func serviceError(c *fiber.Ctx, err error) error {
	var appErr *types.AppError
	if errors.As(err, &appErr) {
		return utils.ErrorResponse(c, appErr.Message, appErr.Code)
	}

	logging.Log.Error("unhandled service error",
		zap.String("path", c.Path()),
		zap.Error(err))
	return utils.ErrorResponse(c, "שגיאת מערכת, נסו שוב מאוחר יותר", fiber.StatusInternalServerError)
}

// invalidBody is the shared response for an unparseable JSON body.
func invalidBody(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, "גוף הבקשה אינו תקין", fiber.StatusBadRequest)
}
