package ports

import (
	"context"
	"time"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// CreateTaskInput carries all data needed to create a task.
type CreateTaskInput struct {
	Title        string
	Description  string
	Status       domain.TaskStatus
	Priority     domain.TaskPriority
	DueDate      *time.Time
	AssignedToID string
	TeamID       string
	Tags         []string
}

// UpdateTaskInput carries a partial task update; nil fields are untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	AssignedToID *string
	Tags         []string
}

// ListTasksInput carries the list endpoint parameters. Visibility scoping
// is derived from the actor by the service, never supplied by the caller.
type ListTasksInput struct {
	Status       string
	Priority     string
	AssignedToID string
	TeamID       string
	DueDateFrom  time.Time
	DueDateTo    time.Time
	Search       string
	Archived     bool
	Page         int
	Limit        int
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateTaskInput) (*domain.Task, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateTaskInput) (*domain.Task, error)
	// Archive soft-deletes a task (modify permission required).
	Archive(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error)
	Assign(ctx context.Context, actor domain.Actor, id, assigneeID string) (*domain.Task, error)
	List(ctx context.Context, actor domain.Actor, in ListTasksInput) ([]*domain.Task, int64, error)
	ListByTeam(ctx context.Context, actor domain.Actor, teamID string, includeArchived bool, page, limit int) ([]*domain.Task, int64, error)
}
