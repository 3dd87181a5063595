package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create handles POST /api/v1/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  domain.Task
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/v1/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), actor, ports.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       domain.TaskStatus(req.Status),
		Priority:     domain.TaskPriority(req.Priority),
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
		TeamID:       req.TeamID,
		Tags:         req.Tags,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// Get handles GET /api/v1/tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	task, err := h.taskService.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Update handles PUT /api/v1/tasks/:id with a partial payload.
func (h *TaskHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	in := ports.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
		Tags:         req.Tags,
	}
	if req.Status != nil {
		s := domain.TaskStatus(*req.Status)
		in.Status = &s
	}
	if req.Priority != nil {
		p := domain.TaskPriority(*req.Priority)
		in.Priority = &p
	}

	task, err := h.taskService.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Archive handles DELETE /api/v1/tasks/:id (soft delete).
func (h *TaskHandler) Archive(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	task, err := h.taskService.Archive(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Assign handles POST /api/v1/tasks/:id/assign.
func (h *TaskHandler) Assign(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req assignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Assign(c.Request().Context(), actor, c.Param("id"), req.AssignedToID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// List handles GET /api/v1/tasks with filters and pagination. Non-admin
// callers only see tasks they own, are assigned to, or share a team with.
func (h *TaskHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	archived, _ := strconv.ParseBool(c.QueryParam("archived"))

	in := ports.ListTasksInput{
		Status:       c.QueryParam("status"),
		Priority:     c.QueryParam("priority"),
		AssignedToID: c.QueryParam("assigned_to_id"),
		TeamID:       c.QueryParam("team_id"),
		Search:       c.QueryParam("search"),
		Archived:     archived,
		Page:         page,
		Limit:        limit,
	}
	if from := c.QueryParam("due_date_from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_date_from must be RFC3339")
		}
		in.DueDateFrom = t
	}
	if to := c.QueryParam("due_date_to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_date_to must be RFC3339")
		}
		in.DueDateTo = t
	}

	tasks, total, err := h.taskService.List(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskListResponse{Items: tasks, Total: total, Page: page, Limit: limit})
}

// ListByTeam handles GET /api/v1/tasks/team/:team_id.
func (h *TaskHandler) ListByTeam(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	page, limit := pageParams(c)
	includeArchived, _ := strconv.ParseBool(c.QueryParam("include_archived"))

	tasks, total, err := h.taskService.ListByTeam(c.Request().Context(), actor, c.Param("team_id"), includeArchived, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskListResponse{Items: tasks, Total: total, Page: page, Limit: limit})
}
