package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// AttachmentService tracks file metadata for tasks. File bytes live in
// external storage; this service only records and authorizes descriptors.
type AttachmentService struct {
	repo     ports.AttachmentRepository
	tasks    ports.TaskRepository
	access   *AccessPolicy
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewAttachmentService(
	repo ports.AttachmentRepository,
	tasks ports.TaskRepository,
	access *AccessPolicy,
	activity ActivityRecorder,
	log zerolog.Logger,
) *AttachmentService {
	return &AttachmentService{
		repo:     repo,
		tasks:    tasks,
		access:   access,
		activity: activity,
		log:      log,
	}
}

// Register records attachment metadata on a task the actor can view.
func (s *AttachmentService) Register(ctx context.Context, actor domain.Actor, taskID, filename, fileURL, mimeType string, fileSize int64) (*domain.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanViewTask(ctx, actor, task); err != nil {
		return nil, err
	}

	attachment, err := s.repo.Create(ctx, &domain.Attachment{
		Filename:   filename,
		FileURL:    fileURL,
		FileSize:   fileSize,
		MimeType:   mimeType,
		TaskID:     taskID,
		UploadedBy: actor.ID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "attachment_added",
		EntityType: "attachment",
		EntityID:   attachment.ID,
		Meta:       map[string]any{"task_id": taskID, "filename": filename},
	})

	return attachment, nil
}

// ListByTask returns a task's attachments (view permission required).
func (s *AttachmentService) ListByTask(ctx context.Context, actor domain.Actor, taskID string) ([]*domain.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanViewTask(ctx, actor, task); err != nil {
		return nil, err
	}
	return s.repo.ListByTask(ctx, taskID)
}

// Delete removes an attachment record. The uploader, the task owner, and
// admins may delete.
func (s *AttachmentService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	attachment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if attachment.UploadedBy != actor.ID && !actor.IsAdmin() {
		task, err := s.tasks.FindByID(ctx, attachment.TaskID)
		if err != nil {
			return err
		}
		if task.OwnerID != actor.ID {
			return deny("attachment_delete", "only the uploader, task owner, or admin can delete this attachment")
		}
	}
	return s.repo.Delete(ctx, id)
}
