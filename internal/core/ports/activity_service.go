package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// ActivityService exposes the audit-trail read surface. Writes go through
// the asynchronous recorder, never through this interface.
type ActivityService interface {
	ListMine(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.ActivityEntry, int64, error)
	ListRecent(ctx context.Context, page, limit int) ([]*domain.ActivityEntry, int64, error)
	ListByEntity(ctx context.Context, entityType, entityID string, page, limit int) ([]*domain.ActivityEntry, int64, error)
}
