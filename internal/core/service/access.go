package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskmasterhq/taskmaster-api/internal/api/metrics"
	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// AccessPolicy decides, per request, whether an actor may view or modify a
// task or team. Decisions are computed fresh from persisted state; there is
// no caching or memoization. Entity existence is a precondition: callers
// resolve the task/team first and surface NotFound before consulting the
// policy. Every deny returns domain.ErrForbidden wrapped with a reason.
type AccessPolicy struct {
	members ports.MembershipLookup
}

func NewAccessPolicy(members ports.MembershipLookup) *AccessPolicy {
	return &AccessPolicy{members: members}
}

// membership resolves the (team, user) row, mapping "absent" to nil.
func (p *AccessPolicy) membership(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	m, err := p.members.GetMember(ctx, teamID, userID)
	if errors.Is(err, domain.ErrMemberNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// deny records the denial and produces the Forbidden outcome.
func deny(operation, reason string) error {
	metrics.AccessDeniedTotal.WithLabelValues(operation).Inc()
	return fmt.Errorf("%w: %s", domain.ErrForbidden, reason)
}

// CanViewTask allows admins, the owner, the assignee, and any member of the
// task's team.
func (p *AccessPolicy) CanViewTask(ctx context.Context, actor domain.Actor, task *domain.Task) error {
	if actor.IsAdmin() {
		return nil
	}
	if task.OwnerID == actor.ID || (task.AssignedToID != "" && task.AssignedToID == actor.ID) {
		return nil
	}
	if task.TeamID != "" {
		m, err := p.membership(ctx, task.TeamID, actor.ID)
		if err != nil {
			return err
		}
		if m != nil {
			return nil
		}
	}
	return deny("task_view", "you do not have access to this task")
}

// CanModifyTask allows admins, the owner, and manager-role members of the
// task's team. Assignees and plain members may view but not modify; the
// asymmetry with CanViewTask is intentional.
func (p *AccessPolicy) CanModifyTask(ctx context.Context, actor domain.Actor, task *domain.Task) error {
	if actor.IsAdmin() {
		return nil
	}
	if task.OwnerID == actor.ID {
		return nil
	}
	if task.TeamID != "" {
		m, err := p.membership(ctx, task.TeamID, actor.ID)
		if err != nil {
			return err
		}
		if m != nil && m.Role == domain.TeamRoleManager {
			return nil
		}
	}
	return deny("task_modify", "only the task owner, team manager, or admin can modify this task")
}

// CanCreateTeamTask requires any membership in the target team; admins are
// exempt from the membership requirement.
func (p *AccessPolicy) CanCreateTeamTask(ctx context.Context, actor domain.Actor, teamID string) error {
	if actor.IsAdmin() {
		return nil
	}
	m, err := p.membership(ctx, teamID, actor.ID)
	if err != nil {
		return err
	}
	if m == nil {
		return deny("task_create", "you must be a member of the team to create tasks for it")
	}
	return nil
}

// CanViewTeam allows admins, the team owner, and any member.
func (p *AccessPolicy) CanViewTeam(ctx context.Context, actor domain.Actor, team *domain.Team) error {
	if actor.IsAdmin() || team.OwnerID == actor.ID {
		return nil
	}
	m, err := p.membership(ctx, team.ID, actor.ID)
	if err != nil {
		return err
	}
	if m == nil {
		return deny("team_view", "you are not a member of this team")
	}
	return nil
}

// CanAdministerTeam gates team metadata updates, deletion, and member role
// changes: owner or admin only. Managers may not administer the team itself.
func (p *AccessPolicy) CanAdministerTeam(actor domain.Actor, team *domain.Team) error {
	if actor.IsAdmin() || team.OwnerID == actor.ID {
		return nil
	}
	return deny("team_administer", "only the team owner or admin can perform this action")
}

// CanManageMembers gates adding and removing ordinary members: admin, team
// owner, or manager-role member.
func (p *AccessPolicy) CanManageMembers(ctx context.Context, actor domain.Actor, team *domain.Team) error {
	if actor.IsAdmin() || team.OwnerID == actor.ID {
		return nil
	}
	m, err := p.membership(ctx, team.ID, actor.ID)
	if err != nil {
		return err
	}
	if m == nil || m.Role != domain.TeamRoleManager {
		return deny("member_manage", "only team managers or admins can perform this action")
	}
	return nil
}

// CheckMemberRemoval gates removing targetUserID from the team. The
// owner-protection rule runs before the privilege gate and blocks everyone
// uniformly, admins included.
func (p *AccessPolicy) CheckMemberRemoval(ctx context.Context, actor domain.Actor, team *domain.Team, targetUserID string) error {
	if team.OwnerID == targetUserID {
		return deny("member_remove", "cannot remove the team owner")
	}
	return p.CanManageMembers(ctx, actor, team)
}
