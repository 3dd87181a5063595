package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// connectionCounter is the slice of the realtime registry the stats
// endpoint needs.
type connectionCounter interface {
	ConnectedUsers() int
}

// AdminHandler exposes system-wide statistics. Admin only.
type AdminHandler struct {
	users       ports.UserRepository
	tasks       ports.TaskRepository
	teams       ports.TeamRepository
	connections connectionCounter
}

func NewAdminHandler(users ports.UserRepository, tasks ports.TaskRepository, teams ports.TeamRepository, connections connectionCounter) *AdminHandler {
	return &AdminHandler{users: users, tasks: tasks, teams: teams, connections: connections}
}

type statsResponse struct {
	TotalUsers     int64            `json:"total_users"`
	ActiveUsers    int64            `json:"active_users"`
	TotalTasks     int64            `json:"total_tasks"`
	TasksByStatus  map[string]int64 `json:"tasks_by_status"`
	TotalTeams     int64            `json:"total_teams"`
	ConnectedUsers int              `json:"connected_users"`
}

// Stats handles GET /api/v1/admin/stats.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		return err
	}
	activeUsers, err := h.users.CountActive(ctx)
	if err != nil {
		return err
	}
	totalTasks, err := h.tasks.Count(ctx)
	if err != nil {
		return err
	}
	byStatus, err := h.tasks.CountByStatus(ctx)
	if err != nil {
		return err
	}
	totalTeams, err := h.teams.Count(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, statsResponse{
		TotalUsers:     totalUsers,
		ActiveUsers:    activeUsers,
		TotalTasks:     totalTasks,
		TasksByStatus:  byStatus,
		TotalTeams:     totalTeams,
		ConnectedUsers: h.connections.ConnectedUsers(),
	})
}
