package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"gorm.io/gorm"
)

// AdminHandler handles the entity and field administration routes
type AdminHandler struct {
	DB *gorm.DB
}

// ListEntities handles GET /api/admin/entities
// @Summary List entity descriptors
// @Description Get all entity descriptors with their field definitions, in navigation order
// @Tags Admin
// @Produce json
// @Success 200 {array} models.Entity
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/entities [get]
func (h *AdminHandler) ListEntities(c *fiber.Ctx) error {
	entities, err := services.ListEntities(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entities)
}

// GetEntity handles GET /api/admin/entities/:id
// @Summary Get an entity descriptor
// @Description Get one entity descriptor by id with its field definitions
// @Tags Admin
// @Produce json
// @Param id path string true "Entity ID"
// @Success 200 {object} models.Entity
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/entities/{id} [get]
func (h *AdminHandler) GetEntity(c *fiber.Ctx) error {
	entity, err := services.GetEntity(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity)
}

// CreateEntity handles POST /api/admin/entities
// @Summary Create an entity descriptor
// @Description Create a new entity type; the slug is derived from the name when absent and is immutable afterwards
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body services.EntityInput true "Entity descriptor"
// @Success 201 {object} models.Entity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /admin/entities [post]
func (h *AdminHandler) CreateEntity(c *fiber.Ctx) error {
	var in services.EntityInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	entity, err := services.CreateEntity(h.DB, in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}

// UpdateEntity handles PATCH /api/admin/entities/:id
// @Summary Update an entity descriptor
// @Description Update name, icon or order of an entity; slug changes are rejected
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param body body services.EntityUpdate true "Fields to update"
// @Success 200 {object} models.Entity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/entities/{id} [patch]
func (h *AdminHandler) UpdateEntity(c *fiber.Ctx) error {
	var in services.EntityUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	entity, err := services.UpdateEntity(h.DB, c.Params("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(entity)
}

// DeleteEntity handles DELETE /api/admin/entities/:id
// @Summary Delete an entity descriptor
// @Description Delete an entity together with its fields, records, record tasks and call logs
// @Tags Admin
// @Produce json
// @Param id path string true "Entity ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/entities/{id} [delete]
func (h *AdminHandler) DeleteEntity(c *fiber.Ctx) error {
	if err := services.DeleteEntity(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListFields handles GET /api/admin/entities/:id/fields
// @Summary List field definitions
// @Description Get the field definitions of an entity in display order
// @Tags Admin
// @Produce json
// @Param id path string true "Entity ID"
// @Success 200 {array} models.FieldDefinition
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/entities/{id}/fields [get]
func (h *AdminHandler) ListFields(c *fiber.Ctx) error {
	defs, err := services.ListFields(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(defs)
}

// CreateField handles POST /api/admin/entities/:id/fields
// @Summary Create a field definition
// @Description Add a field to an entity; the machine name is derived from the label when absent and deduplicated on collision
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Entity ID"
// @Param body body services.FieldInput true "Field definition"
// @Success 201 {object} models.FieldDefinition
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/entities/{id}/fields [post]
func (h *AdminHandler) CreateField(c *fiber.Ctx) error {
	var in services.FieldInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	def, err := services.CreateField(h.DB, c.Params("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(def)
}

// UpdateField handles PATCH /api/admin/fields/:id
// @Summary Update a field definition
// @Description Update a field's label, type, options or layout; the machine name is immutable
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param body body services.FieldUpdate true "Fields to update"
// @Success 200 {object} models.FieldDefinition
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/fields/{id} [patch]
func (h *AdminHandler) UpdateField(c *fiber.Ctx) error {
	var in services.FieldUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	def, err := services.UpdateField(h.DB, c.Params("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(def)
}

// DeleteField handles DELETE /api/admin/fields/:id
// @Summary Delete a field definition
// @Description Remove a field from an entity; stored record values under the field's name are left in place
// @Tags Admin
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/fields/{id} [delete]
func (h *AdminHandler) DeleteField(c *fiber.Ctx) error {
	if err := services.DeleteField(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}
