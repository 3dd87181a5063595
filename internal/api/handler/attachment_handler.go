package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// AttachmentHandler handles HTTP requests for task attachment metadata. File
// bytes live in external storage; only descriptors pass through here.
type AttachmentHandler struct {
	attachmentService ports.AttachmentService
}

func NewAttachmentHandler(attachmentService ports.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

type registerAttachmentRequest struct {
	Filename string `json:"filename" validate:"required,max=255"`
	FileURL  string `json:"file_url" validate:"required,url"`
	FileSize int64  `json:"file_size" validate:"gt=0"`
	MimeType string `json:"mime_type" validate:"required,max=100"`
}

// Register handles POST /api/v1/tasks/:id/attachments.
func (h *AttachmentHandler) Register(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req registerAttachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	attachment, err := h.attachmentService.Register(c.Request().Context(), actor,
		c.Param("id"), req.Filename, req.FileURL, req.MimeType, req.FileSize)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attachment)
}

// ListByTask handles GET /api/v1/tasks/:id/attachments.
func (h *AttachmentHandler) ListByTask(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	attachments, err := h.attachmentService.ListByTask(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attachments)
}

// Delete handles DELETE /api/v1/attachments/:id.
func (h *AttachmentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.attachmentService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
