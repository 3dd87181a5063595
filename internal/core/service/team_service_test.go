package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]*domain.User
	seq   int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) put(u *domain.User) *domain.User {
	if u.ID == "" {
		r.seq++
		u.ID = "user-" + strconv.Itoa(r.seq)
	}
	clone := *u
	r.users[u.ID] = &clone
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	return r.put(user), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool, _, _ int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if !includeInactive && !u.IsActive {
			continue
		}
		clone := *u
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) CountActive(context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type teamFixture struct {
	svc      *TeamService
	teams    *stubTeamRepo
	users    *stubUserRepo
	notifier *stubNotifier
	recorder *stubRecorder
}

func newTeamFixture() *teamFixture {
	teams := newStubTeamRepo()
	users := newStubUserRepo()
	notifier := &stubNotifier{}
	recorder := &stubRecorder{}
	access := NewAccessPolicy(teams)

	for _, a := range []domain.Actor{admin, owner, assignee, manager, member, outsider} {
		users.put(&domain.User{ID: a.ID, Username: a.Username, Email: a.Username + "@example.com", Role: a.Role, IsActive: true})
	}

	return &teamFixture{
		svc:      NewTeamService(teams, users, access, notifier, recorder, discardLogger),
		teams:    teams,
		users:    users,
		notifier: notifier,
		recorder: recorder,
	}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestTeamService_Create_OwnerBecomesManagerMember(t *testing.T) {
	f := newTeamFixture()

	team, err := f.svc.Create(context.Background(), owner, "Core", "the core team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if team.OwnerID != owner.ID {
		t.Fatalf("expected actor as owner, got %s", team.OwnerID)
	}

	m, err := f.teams.GetMember(context.Background(), team.ID, owner.ID)
	if err != nil {
		t.Fatalf("owner membership missing: %v", err)
	}
	if m.Role != domain.TeamRoleManager {
		t.Fatalf("owner must join as manager, got %s", m.Role)
	}
}

// ---------------------------------------------------------------------------
// Membership management
// ---------------------------------------------------------------------------

func TestTeamService_AddMember_NotifiesInvitee(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")

	m, err := f.svc.AddMember(context.Background(), owner, team.ID, member.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != domain.TeamRoleMember {
		t.Fatalf("empty role must default to member, got %s", m.Role)
	}

	if len(f.notifier.calls) != 1 || f.notifier.calls[0].kind != "team_invite" || f.notifier.calls[0].userID != member.ID {
		t.Fatalf("expected a team_invite notification, got %+v", f.notifier.calls)
	}
}

func TestTeamService_AddMember_DuplicateConflicts(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")

	if _, err := f.svc.AddMember(context.Background(), owner, team.ID, member.ID, ""); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := f.svc.AddMember(context.Background(), owner, team.ID, member.ID, ""); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Fatalf("expected ErrAlreadyMember, got %v", err)
	}
}

func TestTeamService_AddMember_UnknownUser(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")

	if _, err := f.svc.AddMember(context.Background(), owner, team.ID, "ghost", ""); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestTeamService_AddMember_RequiresPrivilege(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, member.ID, "")

	if _, err := f.svc.AddMember(context.Background(), member, team.ID, outsider.ID, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("plain member must not add members, got %v", err)
	}
	if _, err := f.svc.AddMember(context.Background(), admin, team.ID, outsider.ID, ""); err != nil {
		t.Fatalf("admin should add members: %v", err)
	}
}

func TestTeamService_RemoveMember_OwnerProtected(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")

	// Even an admin cannot remove the owner.
	if err := f.svc.RemoveMember(context.Background(), admin, team.ID, owner.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("owner removal must be forbidden for everyone, got %v", err)
	}
	if _, err := f.teams.GetMember(context.Background(), team.ID, owner.ID); err != nil {
		t.Fatal("owner membership must survive")
	}
}

func TestTeamService_RemoveMember_NotifiesRemovedUser(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, member.ID, "")
	f.notifier.calls = nil

	if err := f.svc.RemoveMember(context.Background(), owner, team.ID, member.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.notifier.calls) != 1 || f.notifier.calls[0].kind != "team_removed" || f.notifier.calls[0].userID != member.ID {
		t.Fatalf("expected a team_removed notification, got %+v", f.notifier.calls)
	}
	if _, err := f.teams.GetMember(context.Background(), team.ID, member.ID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatal("membership row must be gone")
	}
}

func TestTeamService_RemoveMember_MissingMember(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")

	if err := f.svc.RemoveMember(context.Background(), owner, team.ID, outsider.ID); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestTeamService_UpdateMemberRole_OwnerOrAdminOnly(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, member.ID, "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, manager.ID, domain.TeamRoleManager)

	// Managers may manage members but not change roles.
	if _, err := f.svc.UpdateMemberRole(context.Background(), manager, team.ID, member.ID, domain.TeamRoleManager); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager must not change roles, got %v", err)
	}

	m, err := f.svc.UpdateMemberRole(context.Background(), owner, team.ID, member.ID, domain.TeamRoleManager)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Role != domain.TeamRoleManager {
		t.Fatalf("expected role manager, got %s", m.Role)
	}
}

// ---------------------------------------------------------------------------
// Administration
// ---------------------------------------------------------------------------

func TestTeamService_Update_ManagerForbidden(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, manager.ID, domain.TeamRoleManager)

	name := "Renamed"
	if _, err := f.svc.Update(context.Background(), manager, team.ID, &name, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("manager must not rename the team, got %v", err)
	}

	updated, err := f.svc.Update(context.Background(), owner, team.ID, &name, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected new name, got %s", updated.Name)
	}
}

func TestTeamService_Get_RequiresMembership(t *testing.T) {
	f := newTeamFixture()
	team, _ := f.svc.Create(context.Background(), owner, "Core", "")
	_, _ = f.svc.AddMember(context.Background(), owner, team.ID, member.ID, "")

	detail, err := f.svc.Get(context.Background(), member, team.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detail.Members) != 2 {
		t.Fatalf("expected 2 members (owner + member), got %d", len(detail.Members))
	}

	if _, err := f.svc.Get(context.Background(), outsider, team.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("outsider must not view the team, got %v", err)
	}
}
