package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// UserService implements profile and account-administration use cases.
type UserService struct {
	repo     ports.UserRepository
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewUserService(repo ports.UserRepository, activity ActivityRecorder, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, activity: activity, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.FullName != nil {
		user.FullName = *in.FullName
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor domain.Actor, current, next string) error {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := validatePasswordStrength(next); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "password_changed",
		EntityType: "user",
		EntityID:   actor.ID,
	})
	return nil
}

func (s *UserService) List(ctx context.Context, includeInactive bool, page, limit int) ([]*domain.User, int64, error) {
	skip, limit := pageToSkip(page, limit)
	return s.repo.List(ctx, includeInactive, skip, limit)
}

func (s *UserService) SetActive(ctx context.Context, actor domain.Actor, id string, active bool) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	user.IsActive = active

	action := "user_deactivated"
	if active {
		action = "user_activated"
	}
	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     action,
		EntityType: "user",
		EntityID:   id,
	})
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "user_deleted",
		EntityType: "user",
		EntityID:   id,
	})
	return nil
}
