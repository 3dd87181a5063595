package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

const maxPageSize = 100

// pageToSkip normalizes 1-based page/limit parameters into skip/limit.
func pageToSkip(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return (page - 1) * limit, limit
}

// Notifier is the slice of the notification dispatcher the domain services
// use. NotificationService implements it.
type Notifier interface {
	TaskAssigned(ctx context.Context, assigneeID, taskID, taskTitle, assignerName string) error
	TaskUpdated(ctx context.Context, userID, taskID, taskTitle, updaterName string) error
	CommentAdded(ctx context.Context, taskOwnerID, taskID, taskTitle, commenterName string) error
	TeamInvite(ctx context.Context, userID, teamID, teamName, inviterName string) error
	TeamRemoved(ctx context.Context, userID, teamID, teamName string) error
}

// ActivityRecorder accepts audit entries for asynchronous persistence.
// Recording is best-effort and never blocks or fails the request flow.
type ActivityRecorder interface {
	Record(entry *domain.ActivityEntry)
}

// TaskService implements task use cases: CRUD, archive, assignment, and the
// visibility-scoped list. All permission checks delegate to AccessPolicy.
type TaskService struct {
	repo     ports.TaskRepository
	teams    ports.TeamRepository
	access   *AccessPolicy
	notifier Notifier
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewTaskService(
	repo ports.TaskRepository,
	teams ports.TeamRepository,
	access *AccessPolicy,
	notifier Notifier,
	activity ActivityRecorder,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		repo:     repo,
		teams:    teams,
		access:   access,
		notifier: notifier,
		activity: activity,
		log:      log,
	}
}

// Create creates a task owned by the actor. A team-scoped task requires
// membership in the target team (admins excepted). The assignee is notified
// when different from the creator.
func (s *TaskService) Create(ctx context.Context, actor domain.Actor, in ports.CreateTaskInput) (*domain.Task, error) {
	if in.TeamID != "" {
		if err := s.access.CanCreateTeamTask(ctx, actor, in.TeamID); err != nil {
			return nil, err
		}
	}

	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !status.Valid() {
		return nil, fmt.Errorf("create task: invalid status %q", status)
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("create task: invalid priority %q", priority)
	}

	now := time.Now().UTC()
	task, err := s.repo.Create(ctx, &domain.Task{
		Title:        in.Title,
		Description:  in.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      in.DueDate,
		OwnerID:      actor.ID,
		AssignedToID: in.AssignedToID,
		TeamID:       in.TeamID,
		Tags:         in.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create task")
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "task_created",
		EntityType: "task",
		EntityID:   task.ID,
		Meta:       map[string]any{"title": task.Title, "status": string(task.Status), "priority": string(task.Priority)},
	})

	if task.AssignedToID != "" && task.AssignedToID != actor.ID {
		if err := s.notifier.TaskAssigned(ctx, task.AssignedToID, task.ID, task.Title, actor.Username); err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("task_id", task.ID).Str("owner_id", actor.ID).Msg("task created")
	return task, nil
}

// Get fetches a task, enforcing visibility rules.
func (s *TaskService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanViewTask(ctx, actor, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies a partial update. Only the owner, a team manager, or an
// admin may update. A newly assigned user is notified, and the owner is
// notified when someone else updated their task.
func (s *TaskService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanModifyTask(ctx, actor, task); err != nil {
		return nil, err
	}

	oldAssignee := task.AssignedToID
	meta := map[string]any{}

	if in.Title != nil {
		task.Title = *in.Title
		meta["title"] = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
		meta["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, fmt.Errorf("update task: invalid status %q", *in.Status)
		}
		task.Status = *in.Status
		meta["status"] = string(*in.Status)
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("update task: invalid priority %q", *in.Priority)
		}
		task.Priority = *in.Priority
		meta["priority"] = string(*in.Priority)
	}
	if in.DueDate != nil {
		task.DueDate = in.DueDate
		meta["due_date"] = in.DueDate.Format(time.RFC3339)
	}
	if in.AssignedToID != nil {
		task.AssignedToID = *in.AssignedToID
		meta["assigned_to_id"] = *in.AssignedToID
	}
	if in.Tags != nil {
		task.Tags = in.Tags
		meta["tags"] = in.Tags
	}
	task.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, task); err != nil {
		s.log.Error().Err(err).Str("task_id", id).Msg("failed to update task")
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "task_updated",
		EntityType: "task",
		EntityID:   task.ID,
		Meta:       meta,
	})

	if in.AssignedToID != nil && *in.AssignedToID != "" &&
		*in.AssignedToID != oldAssignee && *in.AssignedToID != actor.ID {
		if err := s.notifier.TaskAssigned(ctx, *in.AssignedToID, task.ID, task.Title, actor.Username); err != nil {
			return nil, err
		}
	}
	if task.OwnerID != actor.ID {
		if err := s.notifier.TaskUpdated(ctx, task.OwnerID, task.ID, task.Title, actor.Username); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// Archive soft-deletes a task.
func (s *TaskService) Archive(ctx context.Context, actor domain.Actor, id string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanModifyTask(ctx, actor, task); err != nil {
		return nil, err
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		return nil, err
	}
	task.IsArchived = true

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "task_archived",
		EntityType: "task",
		EntityID:   task.ID,
	})

	return task, nil
}

// Assign reassigns a task to a different user (modify permission required).
func (s *TaskService) Assign(ctx context.Context, actor domain.Actor, id, assigneeID string) (*domain.Task, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanModifyTask(ctx, actor, task); err != nil {
		return nil, err
	}

	task.AssignedToID = assigneeID
	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	if assigneeID != "" && assigneeID != actor.ID {
		if err := s.notifier.TaskAssigned(ctx, assigneeID, task.ID, task.Title, actor.Username); err != nil {
			return nil, err
		}
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     actor.ID,
		Action:     "task_assigned",
		EntityType: "task",
		EntityID:   task.ID,
		Meta:       map[string]any{"assigned_to_id": assigneeID},
	})

	return task, nil
}

// List returns the tasks visible to the actor. For non-admins the scope
// (owner, assignee, or team membership) is pushed into the query filter so
// totals and pagination reflect the scoped set.
func (s *TaskService) List(ctx context.Context, actor domain.Actor, in ports.ListTasksInput) ([]*domain.Task, int64, error) {
	_, limit := pageToSkip(in.Page, in.Limit)

	filter := ports.ListTasksFilter{
		Status:       in.Status,
		Priority:     in.Priority,
		AssignedToID: in.AssignedToID,
		TeamID:       in.TeamID,
		DueDateFrom:  in.DueDateFrom,
		DueDateTo:    in.DueDateTo,
		Search:       in.Search,
		Archived:     in.Archived,
		Page:         in.Page,
		Limit:        limit,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	if !actor.IsAdmin() {
		teamIDs, err := s.teams.UserTeamIDs(ctx, actor.ID)
		if err != nil {
			return nil, 0, err
		}
		filter.ViewerID = actor.ID
		filter.ViewerTeamIDs = teamIDs
	}

	return s.repo.List(ctx, filter)
}

// ListByTeam returns a team's tasks; any membership in the team (or admin)
// is required.
func (s *TaskService) ListByTeam(ctx context.Context, actor domain.Actor, teamID string, includeArchived bool, page, limit int) ([]*domain.Task, int64, error) {
	team, err := s.teams.FindByID(ctx, teamID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.access.CanViewTeam(ctx, actor, team); err != nil {
		return nil, 0, err
	}
	skip, limit := pageToSkip(page, limit)
	return s.repo.ListByTeam(ctx, teamID, includeArchived, skip, limit)
}
