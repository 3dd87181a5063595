package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// NotificationHandler handles the user-facing notification read surface.
type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notificationService ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

type notificationListResponse struct {
	Items []*domain.Notification `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// List handles GET /api/v1/notifications.
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)
	unreadOnly, _ := strconv.ParseBool(c.QueryParam("unread_only"))

	items, total, err := h.notificationService.List(c.Request().Context(), actor, unreadOnly, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notificationListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// MarkRead handles PUT /api/v1/notifications/:id/read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	n, err := h.notificationService.MarkRead(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// MarkAllRead handles PUT /api/v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	updated, err := h.notificationService.MarkAllRead(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}
