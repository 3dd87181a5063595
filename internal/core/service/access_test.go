package service

import (
	"context"
	"errors"
	"testing"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory membership lookup
// ---------------------------------------------------------------------------

type stubMemberships struct {
	rows map[string]domain.TeamRole // key: teamID + "/" + userID
}

func newStubMemberships() *stubMemberships {
	return &stubMemberships{rows: make(map[string]domain.TeamRole)}
}

func (s *stubMemberships) add(teamID, userID string, role domain.TeamRole) {
	s.rows[teamID+"/"+userID] = role
}

func (s *stubMemberships) GetMember(_ context.Context, teamID, userID string) (*domain.TeamMember, error) {
	role, ok := s.rows[teamID+"/"+userID]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	return &domain.TeamMember{TeamID: teamID, UserID: userID, Role: role}, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	admin    = domain.Actor{ID: "admin-1", Username: "root", Role: domain.RoleAdmin}
	owner    = domain.Actor{ID: "owner-1", Username: "olivia", Role: domain.RoleUser}
	assignee = domain.Actor{ID: "assignee-1", Username: "alex", Role: domain.RoleUser}
	manager  = domain.Actor{ID: "manager-1", Username: "mia", Role: domain.RoleUser}
	member   = domain.Actor{ID: "member-1", Username: "max", Role: domain.RoleUser}
	outsider = domain.Actor{ID: "outsider-1", Username: "oscar", Role: domain.RoleUser}
)

func policyFixture() (*AccessPolicy, *domain.Task, *domain.Team) {
	ms := newStubMemberships()
	ms.add("team-1", manager.ID, domain.TeamRoleManager)
	ms.add("team-1", member.ID, domain.TeamRoleMember)

	task := &domain.Task{
		ID:           "task-1",
		OwnerID:      owner.ID,
		AssignedToID: assignee.ID,
		TeamID:       "team-1",
	}
	team := &domain.Team{ID: "team-1", OwnerID: owner.ID}
	return NewAccessPolicy(ms), task, team
}

func wantAllowed(t *testing.T, err error, who string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s should be allowed, got %v", who, err)
	}
}

func wantForbidden(t *testing.T, err error, who string) {
	t.Helper()
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("%s should be forbidden, got %v", who, err)
	}
}

// ---------------------------------------------------------------------------
// Task rules
// ---------------------------------------------------------------------------

func TestAccessPolicy_CanViewTask(t *testing.T) {
	p, task, _ := policyFixture()
	ctx := context.Background()

	wantAllowed(t, p.CanViewTask(ctx, admin, task), "admin")
	wantAllowed(t, p.CanViewTask(ctx, owner, task), "owner")
	wantAllowed(t, p.CanViewTask(ctx, assignee, task), "assignee")
	wantAllowed(t, p.CanViewTask(ctx, manager, task), "manager")
	wantAllowed(t, p.CanViewTask(ctx, member, task), "member")
	wantForbidden(t, p.CanViewTask(ctx, outsider, task), "outsider")
}

func TestAccessPolicy_CanModifyTask_ViewModifyAsymmetry(t *testing.T) {
	p, task, _ := policyFixture()
	ctx := context.Background()

	wantAllowed(t, p.CanModifyTask(ctx, admin, task), "admin")
	wantAllowed(t, p.CanModifyTask(ctx, owner, task), "owner")
	wantAllowed(t, p.CanModifyTask(ctx, manager, task), "manager")

	// Assignees and plain members can view but never modify.
	wantForbidden(t, p.CanModifyTask(ctx, assignee, task), "assignee")
	wantForbidden(t, p.CanModifyTask(ctx, member, task), "member")
	wantForbidden(t, p.CanModifyTask(ctx, outsider, task), "outsider")
}

func TestAccessPolicy_CanViewTask_NoTeamTask(t *testing.T) {
	p, _, _ := policyFixture()
	ctx := context.Background()
	task := &domain.Task{ID: "task-2", OwnerID: owner.ID}

	wantAllowed(t, p.CanViewTask(ctx, owner, task), "owner")
	wantForbidden(t, p.CanViewTask(ctx, member, task), "team member of an unrelated team")
}

func TestAccessPolicy_CanCreateTeamTask(t *testing.T) {
	p, _, _ := policyFixture()
	ctx := context.Background()

	wantAllowed(t, p.CanCreateTeamTask(ctx, admin, "team-1"), "admin")
	wantAllowed(t, p.CanCreateTeamTask(ctx, member, "team-1"), "member")
	wantAllowed(t, p.CanCreateTeamTask(ctx, manager, "team-1"), "manager")
	wantForbidden(t, p.CanCreateTeamTask(ctx, outsider, "team-1"), "outsider")
}

// ---------------------------------------------------------------------------
// Team rules
// ---------------------------------------------------------------------------

func TestAccessPolicy_CanViewTeam(t *testing.T) {
	p, _, team := policyFixture()
	ctx := context.Background()

	wantAllowed(t, p.CanViewTeam(ctx, admin, team), "admin")
	wantAllowed(t, p.CanViewTeam(ctx, owner, team), "owner")
	wantAllowed(t, p.CanViewTeam(ctx, member, team), "member")
	wantForbidden(t, p.CanViewTeam(ctx, outsider, team), "outsider")
}

func TestAccessPolicy_CanAdministerTeam(t *testing.T) {
	p, _, team := policyFixture()

	wantAllowed(t, p.CanAdministerTeam(admin, team), "admin")
	wantAllowed(t, p.CanAdministerTeam(owner, team), "owner")

	// Managers manage members, not the team itself.
	wantForbidden(t, p.CanAdministerTeam(manager, team), "manager")
	wantForbidden(t, p.CanAdministerTeam(member, team), "member")
}

func TestAccessPolicy_CanManageMembers(t *testing.T) {
	p, _, team := policyFixture()
	ctx := context.Background()

	wantAllowed(t, p.CanManageMembers(ctx, admin, team), "admin")
	wantAllowed(t, p.CanManageMembers(ctx, owner, team), "owner")
	wantAllowed(t, p.CanManageMembers(ctx, manager, team), "manager")
	wantForbidden(t, p.CanManageMembers(ctx, member, team), "member")
	wantForbidden(t, p.CanManageMembers(ctx, outsider, team), "outsider")
}

func TestAccessPolicy_CheckMemberRemoval_OwnerProtection(t *testing.T) {
	p, _, team := policyFixture()
	ctx := context.Background()

	// Nobody removes the owner, not even an admin.
	wantForbidden(t, p.CheckMemberRemoval(ctx, admin, team, owner.ID), "admin removing owner")
	wantForbidden(t, p.CheckMemberRemoval(ctx, owner, team, owner.ID), "owner removing self")

	// Ordinary removals follow the member-management gate.
	wantAllowed(t, p.CheckMemberRemoval(ctx, admin, team, member.ID), "admin removing member")
	wantAllowed(t, p.CheckMemberRemoval(ctx, manager, team, member.ID), "manager removing member")
	wantForbidden(t, p.CheckMemberRemoval(ctx, member, team, manager.ID), "member removing manager")
}
