package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ActivityRepository appends to and reads the immutable audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityEntry) error
	ListByUser(ctx context.Context, userID string, skip, limit int) ([]*domain.ActivityEntry, int64, error)
	ListByEntity(ctx context.Context, entityType, entityID string, skip, limit int) ([]*domain.ActivityEntry, int64, error)
	ListRecent(ctx context.Context, skip, limit int) ([]*domain.ActivityEntry, int64, error)
}
