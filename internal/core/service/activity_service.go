package service

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// ActivityService reads the audit trail. Admin gating for the system-wide
// listings happens at the transport boundary.
type ActivityService struct {
	repo ports.ActivityRepository
}

func NewActivityService(repo ports.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// ListMine returns a page of the actor's own audit entries.
func (s *ActivityService) ListMine(ctx context.Context, actor domain.Actor, page, limit int) ([]*domain.ActivityEntry, int64, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByUser(ctx, actor.ID, skip, limit)
}

// ListRecent returns a page of the most recent audit entries system-wide.
func (s *ActivityService) ListRecent(ctx context.Context, page, limit int) ([]*domain.ActivityEntry, int64, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListRecent(ctx, skip, limit)
}

// ListByEntity returns a page of audit entries concerning one entity.
func (s *ActivityService) ListByEntity(ctx context.Context, entityType, entityID string, page, limit int) ([]*domain.ActivityEntry, int64, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByEntity(ctx, entityType, entityID, skip, limit)
}
