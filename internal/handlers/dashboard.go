package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"gorm.io/gorm"
)

// DashboardHandler handles the home screen aggregate and saved view routes
type DashboardHandler struct {
	DB *gorm.DB
}

// GetStats handles GET /api/dashboard
// @Summary Get dashboard statistics
// @Description Get entity counts and the open pipeline value
// @Tags Dashboard
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /dashboard [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := services.GetDashboardStats(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(stats)
}

// ListSavedViews handles GET /api/saved-views
// @Summary List saved views
// @Description Get the current user's saved list filters, optionally scoped to one entity
// @Tags Dashboard
// @Produce json
// @Param entity query string false "Entity slug"
// @Success 200 {array} models.SavedView
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /saved-views [get]
func (h *DashboardHandler) ListSavedViews(c *fiber.Ctx) error {
	views, err := services.ListSavedViews(h.DB, middleware.UserID(c), c.Query("entity"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(views)
}

// CreateSavedView handles POST /api/saved-views
// @Summary Save a list view
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param body body services.SavedViewInput true "View"
// @Success 201 {object} models.SavedView
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /saved-views [post]
func (h *DashboardHandler) CreateSavedView(c *fiber.Ctx) error {
	var in services.SavedViewInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	view, err := services.CreateSavedView(h.DB, middleware.UserID(c), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// DeleteSavedView handles DELETE /api/saved-views/:id
// @Summary Delete a saved view
// @Tags Dashboard
// @Produce json
// @Param id path string true "View ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /saved-views/{id} [delete]
func (h *DashboardHandler) DeleteSavedView(c *fiber.Ctx) error {
	if err := services.DeleteSavedView(h.DB, middleware.UserID(c), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}
