package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/api/metrics"
	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// Pusher abstracts the connection registry (realtime.Registry).
type Pusher interface {
	IsConnected(userID string) bool
	SendPersonal(userID string, payload any)
}

// pushPayload is the websocket frame wrapping a notification.
type pushPayload struct {
	Type string           `json:"type"`
	Data notificationData `json:"data"`
}

type notificationData struct {
	ID               string  `json:"id"`
	Message          string  `json:"message"`
	NotificationType string  `json:"notification_type"`
	ReferenceID      *string `json:"reference_id"`
	IsRead           bool    `json:"is_read"`
	CreatedAt        string  `json:"created_at"`
}

// NotificationService persists notification records and fans them out to
// live connections. Persistence always precedes the push attempt and is the
// only failure that propagates; the push is advisory.
type NotificationService struct {
	repo   ports.NotificationRepository
	pusher Pusher
	log    zerolog.Logger
}

func NewNotificationService(repo ports.NotificationRepository, pusher Pusher, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, log: log}
}

// Notify persists a notification for userID and, if the user has a live
// connection, pushes it. referenceID may be empty.
func (s *NotificationService) Notify(ctx context.Context, userID, message string, t domain.NotificationType, referenceID string) (*domain.Notification, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("notify: invalid notification type %q", t)
	}

	created, err := s.repo.Create(ctx, &domain.Notification{
		UserID:      userID,
		Message:     message,
		Type:        t,
		ReferenceID: referenceID,
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("notify: persist notification: %w", err)
	}
	metrics.NotificationsCreatedTotal.WithLabelValues(string(t)).Inc()

	if s.pusher.IsConnected(userID) {
		var ref *string
		if created.ReferenceID != "" {
			ref = &created.ReferenceID
		}
		s.pusher.SendPersonal(userID, pushPayload{
			Type: "notification",
			Data: notificationData{
				ID:               created.ID,
				Message:          created.Message,
				NotificationType: string(created.Type),
				ReferenceID:      ref,
				IsRead:           false,
				CreatedAt:        created.CreatedAt.Format(time.RFC3339Nano),
			},
		})
	}

	return created, nil
}

// ---------------------------------------------------------------------------
// Category helpers: thin message-formatting wrappers over Notify.
// ---------------------------------------------------------------------------

func (s *NotificationService) TaskAssigned(ctx context.Context, assigneeID, taskID, taskTitle, assignerName string) error {
	msg := fmt.Sprintf("%s assigned you to task: %q", assignerName, taskTitle)
	_, err := s.Notify(ctx, assigneeID, msg, domain.NotificationTaskAssigned, taskID)
	return err
}

func (s *NotificationService) TaskUpdated(ctx context.Context, userID, taskID, taskTitle, updaterName string) error {
	msg := fmt.Sprintf("%s updated task: %q", updaterName, taskTitle)
	_, err := s.Notify(ctx, userID, msg, domain.NotificationTaskUpdated, taskID)
	return err
}

func (s *NotificationService) CommentAdded(ctx context.Context, taskOwnerID, taskID, taskTitle, commenterName string) error {
	msg := fmt.Sprintf("%s commented on task: %q", commenterName, taskTitle)
	_, err := s.Notify(ctx, taskOwnerID, msg, domain.NotificationCommentAdded, taskID)
	return err
}

func (s *NotificationService) TeamInvite(ctx context.Context, userID, teamID, teamName, inviterName string) error {
	msg := fmt.Sprintf("%s added you to team: %q", inviterName, teamName)
	_, err := s.Notify(ctx, userID, msg, domain.NotificationTeamInvite, teamID)
	return err
}

func (s *NotificationService) TeamRemoved(ctx context.Context, userID, teamID, teamName string) error {
	msg := fmt.Sprintf("You have been removed from team: %q", teamName)
	_, err := s.Notify(ctx, userID, msg, domain.NotificationTeamRemoved, teamID)
	return err
}

// ---------------------------------------------------------------------------
// Read surface
// ---------------------------------------------------------------------------

func (s *NotificationService) List(ctx context.Context, actor domain.Actor, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByUser(ctx, actor.ID, unreadOnly, skip, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error) {
	return s.repo.MarkRead(ctx, id, actor.ID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.repo.MarkAllRead(ctx, actor.ID)
}
