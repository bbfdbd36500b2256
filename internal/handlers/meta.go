package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/services"
	"gorm.io/gorm"
)

// MetaHandler serves the static registries and runtime settings the admin
// console needs to render forms.
type MetaHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// GetRegistry handles GET /api/meta/registry
// @Summary Get field type and icon registries
// @Description Get the selectable field types and entity icons with Hebrew labels
// @Tags Meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /meta/registry [get]
func (h *MetaHandler) GetRegistry(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"fieldTypes":  fields.FieldTypes,
		"entityIcons": fields.EntityIcons,
		"defaultIcon": fields.DefaultIcon,
	})
}

// GetConfig handles GET /api/meta/config
// @Summary Get client runtime settings
// @Description Get the settings the client reads at startup, including the list poll interval
// @Tags Meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /meta/config [get]
func (h *MetaHandler) GetConfig(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pollIntervalMs": h.Cfg.PollIntervalMS,
		"apiVersion":     middleware.APIVersion,
	})
}

// Health handles GET /api/health
// @Summary Health check
// @Description Report database reachability, optional integration status and the poll interval
// @Tags Meta
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *MetaHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
