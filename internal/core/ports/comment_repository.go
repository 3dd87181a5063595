package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// CommentRepository defines persistence operations for task comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) error
	Delete(ctx context.Context, id string) error
	ListByTask(ctx context.Context, taskID string, skip, limit int) ([]*domain.Comment, int64, error)
}

// AttachmentRepository defines persistence operations for task attachment
// metadata. File contents are stored externally.
type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) (*domain.Attachment, error)
	FindByID(ctx context.Context, id string) (*domain.Attachment, error)
	Delete(ctx context.Context, id string) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.Attachment, error)
}
