package handler

import (
	"time"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

type createTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Description  string     `json:"description" validate:"max=2000"`
	Status       string     `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID string     `json:"assigned_to_id"`
	TeamID       string     `json:"team_id"`
	Tags         []string   `json:"tags"`
}

type updateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,max=2000"`
	Status       *string    `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	DueDate      *time.Time `json:"due_date"`
	AssignedToID *string    `json:"assigned_to_id"`
	Tags         []string   `json:"tags"`
}

type assignTaskRequest struct {
	AssignedToID string `json:"assigned_to_id" validate:"required"`
}

type taskListResponse struct {
	Items []*domain.Task `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
