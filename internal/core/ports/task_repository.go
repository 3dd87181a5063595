package ports

import (
	"context"
	"time"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ListTasksFilter carries all query parameters for listing tasks.
// ViewerID/ViewerTeamIDs express the visibility scope for non-admin actors:
// when ViewerID is non-empty, only tasks owned by, assigned to, or belonging
// to one of the viewer's teams are matched. The scope is applied inside the
// query so the returned total reflects the scoped set (pagination stays
// correct). An empty ViewerID means no scoping (admin).
type ListTasksFilter struct {
	ViewerID      string
	ViewerTeamIDs []string

	Status       string
	Priority     string
	AssignedToID string
	TeamID       string
	DueDateFrom  time.Time
	DueDateTo    time.Time
	Search       string // partial match on title or description
	Archived     bool
	Page         int // 1-based
	Limit        int // capped at 100 by the service
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	// Archive soft-deletes a task by setting its archived flag.
	Archive(ctx context.Context, id string) error
	// List returns a page of tasks matching filter and the total count.
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	ListByTeam(ctx context.Context, teamID string, includeArchived bool, skip, limit int) ([]*domain.Task, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
}
