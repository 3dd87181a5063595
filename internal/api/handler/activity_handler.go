package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// ActivityHandler exposes the audit-trail read endpoints.
type ActivityHandler struct {
	activityService ports.ActivityService
}

func NewActivityHandler(activityService ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

type activityListResponse struct {
	Items []*domain.ActivityEntry `json:"items"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// Mine handles GET /api/v1/activity/me.
func (h *ActivityHandler) Mine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	items, total, err := h.activityService.ListMine(c.Request().Context(), actor, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// Recent handles GET /api/v1/activity. Admin only.
func (h *ActivityHandler) Recent(c echo.Context) error {
	page, limit := pageParams(c)

	items, total, err := h.activityService.ListRecent(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityListResponse{Items: items, Total: total, Page: page, Limit: limit})
}

// ByEntity handles GET /api/v1/activity/entity/:type/:id. Admin only.
func (h *ActivityHandler) ByEntity(c echo.Context) error {
	page, limit := pageParams(c)

	items, total, err := h.activityService.ListByEntity(c.Request().Context(), c.Param("type"), c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityListResponse{Items: items, Total: total, Page: page, Limit: limit})
}
