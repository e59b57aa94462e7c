package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

// TaskService owns every task mutation. Both the agent tool path and the
// REST path go through it, so event publishing and reminder scheduling
// behave identically no matter who asked for the change.
type TaskService struct {
	repo      ports.TaskRepository
	publisher ports.EventPublisher
	scheduler ports.ReminderScheduler
	taskTopic string
	logger    *zap.Logger
}

func NewTaskService(
	repo ports.TaskRepository,
	publisher ports.EventPublisher,
	scheduler ports.ReminderScheduler,
	taskTopic string,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		repo:      repo,
		publisher: publisher,
		scheduler: scheduler,
		taskTopic: taskTopic,
		logger:    logger,
	}
}

var _ ports.TaskService = (*TaskService)(nil)

func (s *TaskService) Create(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error) {
	if input.Recurrence == "" {
		input.Recurrence = domain.RecurrenceNone
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if input.Recurrence != domain.RecurrenceNone && input.DueDate == nil {
		return domain.Task{}, domain.ErrInvalidTask
	}

	task, err := s.repo.Create(ctx, userID, input)
	if err != nil {
		return domain.Task{}, err
	}

	if task.DueDate != nil && task.ReminderOffsetMinutes != nil {
		s.scheduler.Schedule(ctx, task.ID, userID, *task.DueDate, *task.ReminderOffsetMinutes)
	}
	s.publish(ctx, domain.EventTaskCreated, task)

	return task, nil
}

func (s *TaskService) Get(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

func (s *TaskService) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	return s.repo.List(ctx, userID, filter)
}

func (s *TaskService) Update(ctx context.Context, userID string, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.DueDateSet {
		task.DueDate = input.DueDate
	}
	if input.ReminderOffsetSet {
		task.ReminderOffsetMinutes = input.ReminderOffsetMinutes
	}
	if input.Recurrence != nil {
		task.Recurrence = *input.Recurrence
		task.IsRecurring = *input.Recurrence != domain.RecurrenceNone
	}
	if task.Recurrence != domain.RecurrenceNone && task.DueDate == nil {
		return domain.Task{}, domain.ErrInvalidTask
	}
	task.UpdatedAt = time.Now().UTC()

	task, err = s.repo.Update(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	// Tag replacement is full-replace: the new list supersedes the old.
	if input.TagsSet {
		if err := s.repo.ReplaceTags(ctx, task.ID, input.Tags); err != nil {
			return domain.Task{}, err
		}
		task.Tags = input.Tags
	}

	s.rescheduleReminder(ctx, task)
	s.publish(ctx, domain.EventTaskUpdated, task)

	return task, nil
}

// Complete marks a task done. Completing an already-completed task is a
// no-op that reports the current state, so redelivered commands cannot
// flip a task back and forth.
func (s *TaskService) Complete(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if task.Completed {
		return task, nil
	}

	task.Completed = true
	task.UpdatedAt = time.Now().UTC()
	task, err = s.repo.Update(ctx, task)
	if err != nil {
		return domain.Task{}, err
	}

	s.publish(ctx, domain.EventTaskCompleted, task)
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return domain.Task{}, err
	}

	s.scheduler.Cancel(ctx, task.ID)

	if err := s.repo.Delete(ctx, task.ID); err != nil {
		return domain.Task{}, err
	}

	s.publish(ctx, domain.EventTaskDeleted, task)
	return task, nil
}

// ownedTask loads a task and hides other owners' tasks behind not-found,
// so task ids cannot be probed across users.
func (s *TaskService) ownedTask(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	if task.UserID != userID {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

// rescheduleReminder applies the reminder rules after an update: with a
// due date and an offset both present the job is replaced, otherwise any
// existing job is cancelled.
func (s *TaskService) rescheduleReminder(ctx context.Context, task domain.Task) {
	if task.DueDate != nil && task.ReminderOffsetMinutes != nil {
		s.scheduler.Cancel(ctx, task.ID)
		s.scheduler.Schedule(ctx, task.ID, task.UserID, *task.DueDate, *task.ReminderOffsetMinutes)
		return
	}
	s.scheduler.Cancel(ctx, task.ID)
}

// publish sends a lifecycle event. The mutation is already committed at
// this point; a dropped event is logged by the publisher and ignored.
func (s *TaskService) publish(ctx context.Context, eventType string, task domain.Task) {
	if ok := s.publisher.Publish(ctx, s.taskTopic, eventType, task.ID, domain.SnapshotOf(task), task.UserID); !ok {
		s.logger.Warn("task event dropped",
			zap.String("event_type", eventType),
			zap.Uint64("task_id", task.ID),
		)
	}
}
