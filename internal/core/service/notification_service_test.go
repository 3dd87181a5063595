package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubNotificationRepo struct {
	created   []*domain.Notification
	createErr error
}

func (r *stubNotificationRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	clone := *n
	clone.ID = "notif-" + strconv.Itoa(len(r.created)+1)
	r.created = append(r.created, &clone)
	return &clone, nil
}

func (r *stubNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]*domain.Notification, int64, error) {
	var out []*domain.Notification
	for _, n := range r.created {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

func (r *stubNotificationRepo) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	for _, n := range r.created {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return n, nil
		}
	}
	return nil, domain.ErrNotificationNotFound
}

func (r *stubNotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			count++
		}
	}
	return count, nil
}

func (r *stubNotificationRepo) CountUnread(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range r.created {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

type stubPusher struct {
	connected map[string]bool
	sent      []any
	sentTo    []string
}

func (p *stubPusher) IsConnected(userID string) bool { return p.connected[userID] }

func (p *stubPusher) SendPersonal(userID string, payload any) {
	p.sentTo = append(p.sentTo, userID)
	p.sent = append(p.sent, payload)
}

func newNotificationFixture() (*NotificationService, *stubNotificationRepo, *stubPusher) {
	repo := &stubNotificationRepo{}
	pusher := &stubPusher{connected: make(map[string]bool)}
	return NewNotificationService(repo, pusher, discardLogger), repo, pusher
}

// ---------------------------------------------------------------------------
// Notify
// ---------------------------------------------------------------------------

func TestNotificationService_Notify_PersistsAndPushes(t *testing.T) {
	svc, repo, pusher := newNotificationFixture()
	pusher.connected["user-1"] = true

	n, err := svc.Notify(context.Background(), "user-1", "hello", domain.NotificationSystem, "ref-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.ID == "" {
		t.Fatal("expected persisted notification to carry an id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted notification, got %d", len(repo.created))
	}
	if len(pusher.sent) != 1 || pusher.sentTo[0] != "user-1" {
		t.Fatalf("expected a push to user-1, got %v", pusher.sentTo)
	}

	payload, ok := pusher.sent[0].(pushPayload)
	if !ok {
		t.Fatalf("unexpected payload type %T", pusher.sent[0])
	}
	if payload.Type != "notification" {
		t.Fatalf("expected frame type notification, got %q", payload.Type)
	}
	if payload.Data.ID != n.ID || payload.Data.Message != "hello" {
		t.Fatalf("payload does not match record: %+v", payload.Data)
	}
	if payload.Data.ReferenceID == nil || *payload.Data.ReferenceID != "ref-1" {
		t.Fatal("expected reference id in payload")
	}
	if payload.Data.IsRead {
		t.Fatal("pushed notification must be unread")
	}
}

func TestNotificationService_Notify_PersistsWithoutConnection(t *testing.T) {
	svc, repo, pusher := newNotificationFixture()

	_, err := svc.Notify(context.Background(), "user-1", "offline msg", domain.NotificationTaskUpdated, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatal("notification must be persisted even when the user is offline")
	}
	if len(pusher.sent) != 0 {
		t.Fatal("no push expected for a disconnected user")
	}
}

func TestNotificationService_Notify_PersistErrorPropagates(t *testing.T) {
	svc, repo, pusher := newNotificationFixture()
	repo.createErr = errors.New("db down")
	pusher.connected["user-1"] = true

	_, err := svc.Notify(context.Background(), "user-1", "msg", domain.NotificationSystem, "")
	if err == nil {
		t.Fatal("expected persistence error to propagate")
	}
	if len(pusher.sent) != 0 {
		t.Fatal("no push may happen when persistence fails")
	}
}

func TestNotificationService_Notify_RejectsInvalidType(t *testing.T) {
	svc, repo, _ := newNotificationFixture()

	_, err := svc.Notify(context.Background(), "user-1", "msg", domain.NotificationType("bogus"), "")
	if err == nil {
		t.Fatal("expected invalid type to be rejected")
	}
	if len(repo.created) != 0 {
		t.Fatal("nothing may be persisted for an invalid type")
	}
}

func TestNotificationService_Notify_EmptyReferenceIsNull(t *testing.T) {
	svc, _, pusher := newNotificationFixture()
	pusher.connected["user-1"] = true

	_, err := svc.Notify(context.Background(), "user-1", "msg", domain.NotificationSystem, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	payload := pusher.sent[0].(pushPayload)
	if payload.Data.ReferenceID != nil {
		t.Fatal("empty reference id must serialize as null, not empty string")
	}
}

// ---------------------------------------------------------------------------
// Category helpers
// ---------------------------------------------------------------------------

func TestNotificationService_Helpers_MessageWording(t *testing.T) {
	svc, repo, _ := newNotificationFixture()
	ctx := context.Background()

	if err := svc.TaskAssigned(ctx, "u1", "t1", "Ship it", "alice"); err != nil {
		t.Fatalf("TaskAssigned: %v", err)
	}
	if err := svc.TeamRemoved(ctx, "u1", "team1", "Core"); err != nil {
		t.Fatalf("TeamRemoved: %v", err)
	}

	if got := repo.created[0].Message; !strings.Contains(got, `alice assigned you to task: "Ship it"`) {
		t.Fatalf("unexpected assignment wording: %q", got)
	}
	if repo.created[0].Type != domain.NotificationTaskAssigned {
		t.Fatalf("wrong type: %s", repo.created[0].Type)
	}
	if repo.created[0].ReferenceID != "t1" {
		t.Fatalf("wrong reference: %s", repo.created[0].ReferenceID)
	}
	if got := repo.created[1].Message; !strings.Contains(got, `removed from team: "Core"`) {
		t.Fatalf("unexpected removal wording: %q", got)
	}
}

// ---------------------------------------------------------------------------
// Read surface
// ---------------------------------------------------------------------------

func TestNotificationService_MarkAllRead(t *testing.T) {
	svc, _, _ := newNotificationFixture()
	ctx := context.Background()
	actor := domain.Actor{ID: "user-1", Role: domain.RoleUser}

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(ctx, "user-1", "msg", domain.NotificationSystem, ""); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}

	updated, err := svc.MarkAllRead(ctx, actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 3 {
		t.Fatalf("expected 3 updates, got %d", updated)
	}

	items, total, err := svc.List(ctx, actor, true, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected no unread left, got %d", total)
	}
}
