package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// CommentService implements task comment use cases. Commenting requires
// view access to the task; editing is restricted to the author (or admin).
type CommentService struct {
	repo     ports.CommentRepository
	tasks    ports.TaskRepository
	access   *AccessPolicy
	notifier Notifier
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewCommentService(
	repo ports.CommentRepository,
	tasks ports.TaskRepository,
	access *AccessPolicy,
	notifier Notifier,
	activity ActivityRecorder,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{
		repo:     repo,
		tasks:    tasks,
		access:   access,
		notifier: notifier,
		activity: activity,
		log:      log,
	}
}

// Create adds a comment to a task the actor can view. The task owner is
// notified unless they authored the comment themselves.
func (s *CommentService) Create(ctx context.Context, actor domain.Actor, taskID, content string) (*domain.Comment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanViewTask(ctx, actor, task); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment, err := s.repo.Create(ctx, &domain.Comment{
		Content:   content,
		TaskID:    taskID,
		AuthorID:  actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "comment_added",
		EntityType: "comment",
		EntityID:   comment.ID,
		Meta:       map[string]any{"task_id": taskID},
	})

	if task.OwnerID != actor.ID {
		if err := s.notifier.CommentAdded(ctx, task.OwnerID, task.ID, task.Title, actor.Username); err != nil {
			return nil, err
		}
	}

	return comment, nil
}

// ListByTask returns a task's comments (view permission required).
func (s *CommentService) ListByTask(ctx context.Context, actor domain.Actor, taskID string, page, limit int) ([]*domain.Comment, int64, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.access.CanViewTask(ctx, actor, task); err != nil {
		return nil, 0, err
	}
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByTask(ctx, taskID, skip, limit)
}

// Update edits a comment's content (author or admin only).
func (s *CommentService) Update(ctx context.Context, actor domain.Actor, id, content string) (*domain.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return nil, deny("comment_modify", "only the comment author or admin can edit this comment")
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment (author or admin only).
func (s *CommentService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.AuthorID != actor.ID && !actor.IsAdmin() {
		return deny("comment_modify", "only the comment author or admin can delete this comment")
	}
	return s.repo.Delete(ctx, id)
}
