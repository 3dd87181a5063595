package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// SetActive toggles the active flag; inactive users cannot authenticate.
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	// List returns a page of users and the total count. When includeInactive
	// is false, deactivated accounts are excluded from both.
	List(ctx context.Context, includeInactive bool, skip, limit int) ([]*domain.User, int64, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}
