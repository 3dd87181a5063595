package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// TeamRepository defines persistence operations for teams and memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	FindByID(ctx context.Context, id string) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns teams where the user is owner or member.
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.Team, error)
	Count(ctx context.Context) (int64, error)

	// GetMember returns the membership row for (teamID, userID), or
	// domain.ErrMemberNotFound when absent.
	GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error)
	// AddMember inserts a membership row; returns domain.ErrAlreadyMember
	// when the (team, user) pair already exists.
	AddMember(ctx context.Context, member *domain.TeamMember) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	UpdateMemberRole(ctx context.Context, teamID, userID string, role domain.TeamRole) error
	ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMember, error)
	// UserTeamIDs returns the IDs of every team the user belongs to, as
	// owner or member. Feeds the task visibility scope.
	UserTeamIDs(ctx context.Context, userID string) ([]string, error)
}

// MembershipLookup is the narrow read-only capability the authorization
// engine needs. TeamRepository satisfies it.
type MembershipLookup interface {
	GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error)
}
