package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for task comments.
type CommentHandler struct {
	commentService ports.CommentService
}

func NewCommentHandler(commentService ports.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type commentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

type commentListResponse struct {
	Items []*domain.Comment `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// Create handles POST /api/v1/tasks/:id/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Create(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListByTask handles GET /api/v1/tasks/:id/comments.
func (h *CommentHandler) ListByTask(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	page, limit := pageParams(c)

	comments, total, err := h.commentService.ListByTask(c.Request().Context(), actor, c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentListResponse{Items: comments, Total: total, Page: page, Limit: limit})
}

// Update handles PUT /api/v1/comments/:id. Author or admin only.
func (h *CommentHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.commentService.Update(c.Request().Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete handles DELETE /api/v1/comments/:id. Author or admin only.
func (h *CommentHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.commentService.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
