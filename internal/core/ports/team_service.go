package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// TeamDetail is the full team view including its membership list.
type TeamDetail struct {
	Team    *domain.Team
	Members []*domain.TeamMember
}

// TeamService defines use-case operations for teams and memberships.
type TeamService interface {
	// Create makes the actor the team owner and auto-adds them as manager.
	Create(ctx context.Context, actor domain.Actor, name, description string) (*domain.Team, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*TeamDetail, error)
	ListMine(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.Team, error)
	Update(ctx context.Context, actor domain.Actor, id string, name, description *string) (*domain.Team, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	AddMember(ctx context.Context, actor domain.Actor, teamID, userID string, role domain.TeamRole) (*domain.TeamMember, error)
	RemoveMember(ctx context.Context, actor domain.Actor, teamID, userID string) error
	UpdateMemberRole(ctx context.Context, actor domain.Actor, teamID, userID string, role domain.TeamRole) (*domain.TeamMember, error)
}
