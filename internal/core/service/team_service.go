package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// TeamService implements team and membership use cases.
type TeamService struct {
	repo     ports.TeamRepository
	users    ports.UserRepository
	access   *AccessPolicy
	notifier Notifier
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewTeamService(
	repo ports.TeamRepository,
	users ports.UserRepository,
	access *AccessPolicy,
	notifier Notifier,
	activity ActivityRecorder,
	log zerolog.Logger,
) *TeamService {
	return &TeamService{
		repo:     repo,
		users:    users,
		access:   access,
		notifier: notifier,
		activity: activity,
		log:      log,
	}
}

// Create creates a team owned by the actor. The owner is auto-added as a
// manager-role member.
func (s *TeamService) Create(ctx context.Context, actor domain.Actor, name, description string) (*domain.Team, error) {
	now := time.Now().UTC()
	team, err := s.repo.Create(ctx, &domain.Team{
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddMember(ctx, &domain.TeamMember{
		TeamID:   team.ID,
		UserID:   actor.ID,
		Role:     domain.TeamRoleManager,
		JoinedAt: now,
	}); err != nil {
		return nil, fmt.Errorf("create team: add owner membership: %w", err)
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "team_created",
		EntityType: "team",
		EntityID:   team.ID,
		Meta:       map[string]any{"name": team.Name},
	})

	s.log.Info().Str("team_id", team.ID).Str("owner_id", actor.ID).Msg("team created")
	return team, nil
}

// Get returns a team with its membership list (view permission required).
func (s *TeamService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.TeamDetail, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanViewTeam(ctx, actor, team); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.TeamDetail{Team: team, Members: members}, nil
}

// ListMine returns teams where the actor is owner or member.
func (s *TeamService) ListMine(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.Team, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByUser(ctx, actor.ID, skip, limit)
}

// Update changes team metadata (owner or admin only).
func (s *TeamService) Update(ctx context.Context, actor domain.Actor, id string, name, description *string) (*domain.Team, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAdministerTeam(actor, team); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	if name != nil {
		team.Name = *name
		meta["name"] = *name
	}
	if description != nil {
		team.Description = *description
		meta["description"] = *description
	}
	team.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "team_updated",
		EntityType: "team",
		EntityID:   team.ID,
		Meta:       meta,
	})

	return team, nil
}

// Delete removes a team (owner or admin only).
func (s *TeamService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.CanAdministerTeam(actor, team); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "team_deleted",
		EntityType: "team",
		EntityID:   id,
	})

	return nil
}

// AddMember adds userID to the team (admin, owner, or manager required).
// Adding an existing member yields domain.ErrAlreadyMember; the new member
// receives an invite notification.
func (s *TeamService) AddMember(ctx context.Context, actor domain.Actor, teamID, userID string, role domain.TeamRole) (*domain.TeamMember, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanManageMembers(ctx, actor, team); err != nil {
		return nil, err
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetMember(ctx, teamID, userID); err == nil {
		return nil, domain.ErrAlreadyMember
	} else if !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	if role == "" {
		role = domain.TeamRoleMember
	}
	if !role.Valid() {
		return nil, fmt.Errorf("add member: invalid role %q", role)
	}

	member := &domain.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddMember(ctx, member); err != nil {
		return nil, err
	}

	if err := s.notifier.TeamInvite(ctx, userID, teamID, team.Name, actor.Username); err != nil {
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "team_member_added",
		EntityType: "team",
		EntityID:   teamID,
		Meta:       map[string]any{"user_id": userID, "role": string(role)},
	})

	return member, nil
}

// RemoveMember removes userID from the team. The team owner can never be
// removed, regardless of caller privilege; that check precedes the
// privilege gate.
func (s *TeamService) RemoveMember(ctx context.Context, actor domain.Actor, teamID, userID string) error {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.access.CheckMemberRemoval(ctx, actor, team, userID); err != nil {
		return err
	}

	if _, err := s.repo.GetMember(ctx, teamID, userID); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(ctx, teamID, userID); err != nil {
		return err
	}

	if err := s.notifier.TeamRemoved(ctx, userID, teamID, team.Name); err != nil {
		return err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "team_member_removed",
		EntityType: "team",
		EntityID:   teamID,
		Meta:       map[string]any{"user_id": userID},
	})

	return nil
}

// UpdateMemberRole changes a member's role (owner or admin only).
func (s *TeamService) UpdateMemberRole(ctx context.Context, actor domain.Actor, teamID, userID string, role domain.TeamRole) (*domain.TeamMember, error) {
	team, err := s.repo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAdministerTeam(actor, team); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("update member role: invalid role %q", role)
	}

	member, err := s.repo.GetMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMemberRole(ctx, teamID, userID, role); err != nil {
		return nil, err
	}
	member.Role = role
	return member, nil
}
