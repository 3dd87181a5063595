package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// NotificationService is the single entry point for producing notifications
// from domain events, plus the user-facing read surface.
//
// Notify persists the record first and then attempts a best-effort push to
// any live connections; persistence errors propagate, push failures never do.
type NotificationService interface {
	Notify(ctx context.Context, userID, message string, t domain.NotificationType, referenceID string) (*domain.Notification, error)
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, page, limit int) ([]*domain.Notification, int64, error)
	MarkRead(ctx context.Context, actor domain.Actor, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, actor domain.Actor) (int64, error)
}

// CommentService defines use-case operations for task comments.
type CommentService interface {
	Create(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error)
	ListByTask(ctx context.Context, actor domain.Actor, taskID string, page, limit int) ([]*domain.Comment, int64, error)
	Update(ctx context.Context, actor domain.Actor, id, content string) (*domain.Comment, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// AttachmentService defines use-case operations for attachment metadata.
type AttachmentService interface {
	Register(ctx context.Context, actor domain.Actor, taskID, filename, fileURL, mimeType string, fileSize int64) (*domain.Attachment, error)
	ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]*domain.Attachment, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
