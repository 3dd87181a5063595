package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// NotificationRepository defines persistence operations for notifications.
// Records are created by the dispatcher and mutated only through the read
// flag; deletion is not part of this surface.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	// ListByUser returns a page of the user's notifications, newest first,
	// and the total count. unreadOnly restricts both to unread records.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, skip, limit int) ([]*domain.Notification, int64, error)
	// MarkRead flips the read flag on one notification owned by userID;
	// returns domain.ErrNotificationNotFound when no such row exists.
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
	// MarkAllRead marks every unread notification for the user; returns the
	// number of rows updated.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}
