package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/middleware"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/types"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"gorm.io/gorm"
)

// DynamicHandler handles the per-entity record routes
type DynamicHandler struct {
	DB *gorm.DB
}

// ListRecords handles GET /api/dynamic/:slug
// @Summary List records of an entity
// @Description Get the entity descriptor and its records, most recently updated first; search filters on the serialized data document
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param search query string false "Case-insensitive substring filter"
// @Success 200 {object} services.RecordList
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug} [get]
func (h *DynamicHandler) ListRecords(c *fiber.Ctx) error {
	result, err := services.ListRecords(h.DB, c.Params("slug"), c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetRecord handles GET /api/dynamic/:slug/:id
// @Summary Get one record
// @Description Get the entity descriptor plus one record with its tasks and call log
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Success 200 {object} services.RecordDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id} [get]
func (h *DynamicHandler) GetRecord(c *fiber.Ctx) error {
	result, err := services.GetRecord(h.DB, c.Params("slug"), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// CreateRecord handles POST /api/dynamic/:slug
// @Summary Create a record
// @Description Store a new record document under an entity
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param body body services.RecordInput true "Record data document"
// @Success 201 {object} models.DynamicRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug} [post]
func (h *DynamicHandler) CreateRecord(c *fiber.Ctx) error {
	var in services.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	record, err := services.CreateRecord(h.DB, c.Params("slug"), in, middleware.UserIDPtr(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// UpdateRecord handles PATCH /api/dynamic/:slug/:id
// @Summary Replace a record's data
// @Description Replace the record's data document wholesale; the last writer wins
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param body body services.RecordInput true "Full replacement data document"
// @Success 200 {object} models.DynamicRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id} [patch]
func (h *DynamicHandler) UpdateRecord(c *fiber.Ctx) error {
	var in services.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	record, err := services.UpdateRecord(h.DB, c.Params("slug"), c.Params("id"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(record)
}

// DeleteRecord handles DELETE /api/dynamic/:slug/:id
// @Summary Delete a record
// @Description Delete a record with its tasks and call log entries
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id} [delete]
func (h *DynamicHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := services.DeleteRecord(h.DB, c.Params("slug"), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// RenderRecord handles GET /api/dynamic/:slug/:id/display
// @Summary Get a display projection of a record
// @Description Get the record's values coerced and formatted per its field definitions, with a derived row title
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Success 200 {object} services.RenderedRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/display [get]
func (h *DynamicHandler) RenderRecord(c *fiber.Ctx) error {
	rendered, err := services.RenderRecord(h.DB, c.Params("slug"), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(rendered)
}

// ValidateRecord handles POST /api/dynamic/:slug/validate
// @Summary Validate a record document
// @Description Run the required-field check against the entity's definitions without storing anything
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param body body services.RecordInput true "Record data document"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/validate [post]
func (h *DynamicHandler) ValidateRecord(c *fiber.Ctx) error {
	var in services.RecordInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	if err := services.ValidateRecord(h.DB, c.Params("slug"), in.Data); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListRecordTasks handles GET /api/dynamic/:slug/:id/tasks
// @Summary List checklist items
// @Description Get a record's checklist items in display order
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Success 200 {array} models.RecordTask
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/tasks [get]
func (h *DynamicHandler) ListRecordTasks(c *fiber.Ctx) error {
	tasks, err := services.ListRecordTasks(h.DB, c.Params("slug"), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// CreateRecordTask handles POST /api/dynamic/:slug/:id/tasks
// @Summary Add a checklist item
// @Description Append a checklist item to a record; order is assigned after the current last item
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param body body services.RecordTaskInput true "Checklist item"
// @Success 201 {object} models.RecordTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/tasks [post]
func (h *DynamicHandler) CreateRecordTask(c *fiber.Ctx) error {
	var in services.RecordTaskInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	task, err := services.CreateRecordTask(h.DB, c.Params("slug"), c.Params("id"), in, middleware.UserIDPtr(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateRecordTask handles PATCH /api/dynamic/:slug/:id/tasks/:taskId
// @Summary Update a checklist item
// @Description Rename or toggle a checklist item
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param taskId path string true "Task ID"
// @Param body body services.RecordTaskUpdate true "Fields to update"
// @Success 200 {object} models.RecordTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/tasks/{taskId} [patch]
func (h *DynamicHandler) UpdateRecordTask(c *fiber.Ctx) error {
	var in services.RecordTaskUpdate
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	task, err := services.UpdateRecordTask(h.DB, c.Params("slug"), c.Params("id"), c.Params("taskId"), in)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// DeleteRecordTask handles DELETE /api/dynamic/:slug/:id/tasks/:taskId
// @Summary Delete a checklist item
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/tasks/{taskId} [delete]
func (h *DynamicHandler) DeleteRecordTask(c *fiber.Ctx) error {
	if err := services.DeleteRecordTask(h.DB, c.Params("slug"), c.Params("id"), c.Params("taskId")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListCallLogs handles GET /api/dynamic/:slug/:id/calls
// @Summary List call entries
// @Description Get a record's call log, newest first
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Success 200 {array} models.CallLog
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/calls [get]
func (h *DynamicHandler) ListCallLogs(c *fiber.Ctx) error {
	calls, err := services.ListCallLogs(h.DB, c.Params("slug"), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(calls)
}

// CreateCallLog handles POST /api/dynamic/:slug/:id/calls
// @Summary Log a call
// @Description Append a call entry to a record's call log
// @Tags Records
// @Accept json
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param body body services.CallLogInput true "Call entry"
// @Success 201 {object} models.CallLog
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/calls [post]
func (h *DynamicHandler) CreateCallLog(c *fiber.Ctx) error {
	var body struct {
		PhoneNumber string           `json:"phoneNumber"`
		Direction   string           `json:"direction"`
		Duration    *types.FlexInt64 `json:"duration"`
		Notes       string           `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	in := services.CallLogInput{
		PhoneNumber: body.PhoneNumber,
		Direction:   body.Direction,
		Notes:       body.Notes,
	}
	if body.Duration != nil {
		d := body.Duration.Int()
		in.Duration = &d
	}

	call, err := services.CreateCallLog(h.DB, c.Params("slug"), c.Params("id"), in, middleware.UserIDPtr(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(call)
}

// DeleteCallLog handles DELETE /api/dynamic/:slug/:id/calls/:callId
// @Summary Delete a call entry
// @Tags Records
// @Produce json
// @Param slug path string true "Entity slug"
// @Param id path string true "Record ID"
// @Param callId path string true "Call ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /dynamic/{slug}/{id}/calls/{callId} [delete]
func (h *DynamicHandler) DeleteCallLog(c *fiber.Ctx) error {
	if err := services.DeleteCallLog(h.DB, c.Params("slug"), c.Params("id"), c.Params("callId")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// CreateCall handles POST /api/calls
// @Summary Log an unattached call
// @Description Record a call pushed by a dialer before it is linked to any record; direction defaults to incoming
// @Tags Calls
// @Accept json
// @Produce json
// @Param body body services.CallLogInput true "Call entry"
// @Success 201 {object} models.CallLog
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /calls [post]
func (h *DynamicHandler) CreateCall(c *fiber.Ctx) error {
	var body struct {
		PhoneNumber string           `json:"phoneNumber"`
		Direction   string           `json:"direction"`
		Duration    *types.FlexInt64 `json:"duration"`
		Notes       string           `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	in := services.CallLogInput{
		PhoneNumber: body.PhoneNumber,
		Direction:   body.Direction,
		Notes:       body.Notes,
	}
	if body.Duration != nil {
		d := body.Duration.Int()
		in.Duration = &d
	}

	call, err := services.CreateCall(h.DB, in, middleware.UserIDPtr(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(call)
}

// LinkCall handles POST /api/calls/link
// @Summary Link a call to a record
// @Description Attach an unlinked call entry to the record whose data holds the same phone number
// @Tags Calls
// @Accept json
// @Produce json
// @Param body body object true "Call id"
// @Success 200 {object} models.CallLog
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /calls/link [post]
func (h *DynamicHandler) LinkCall(c *fiber.Ctx) error {
	var body struct {
		CallID string `json:"callId"`
	}
	if err := c.BodyParser(&body); err != nil {
		return invalidBody(c)
	}

	call, err := services.LinkCall(h.DB, body.CallID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(call)
}
