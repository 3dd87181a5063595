package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// UpdateProfileInput carries a partial profile update; nil fields are
// untouched.
type UpdateProfileInput struct {
	Username *string
	FullName *string
}

// UserService defines profile and account-administration use cases. Admin
// gating for the administration calls happens at the transport boundary.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, in UpdateProfileInput) (*domain.User, error)
	// ChangePassword verifies the current password before applying the new
	// one; the new password must satisfy the strength policy.
	ChangePassword(ctx context.Context, actor domain.Actor, current, next string) error
	List(ctx context.Context, includeInactive bool, page, limit int) ([]*domain.User, int64, error)
	SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
