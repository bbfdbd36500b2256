package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/config"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/utils"
)

// maxUploadBytes caps file-field uploads at 20 MiB.
const maxUploadBytes = 20 << 20

// UploadHandler handles file-field uploads
type UploadHandler struct {
	Cfg *config.Config
}

// Upload handles POST /api/upload
// @Summary Upload a file
// @Description Store a multipart file in object storage and return the value for a file field
// @Tags Upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Success 201 {object} services.UploadResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /upload [post]
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, "לא נשלח קובץ", fiber.StatusBadRequest)
	}
	if fileHeader.Size > maxUploadBytes {
		return utils.ErrorResponse(c, "הקובץ גדול מדי (מקסימום 20MB)", fiber.StatusBadRequest)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, "קריאת הקובץ נכשלה", fiber.StatusBadRequest)
	}
	defer f.Close()

	result, err := services.UploadFile(
		c.Context(),
		h.Cfg,
		fileHeader.Filename,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
		f,
	)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}
