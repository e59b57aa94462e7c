package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

// RecurrenceService materializes the next occurrence of a recurring task
// once the current one completes. Reminder scheduling for the spawned
// task is left to the task-creation path, same as any other new task.
type RecurrenceService struct {
	repo   ports.TaskRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewRecurrenceService(repo ports.TaskRepository, logger *zap.Logger) *RecurrenceService {
	return &RecurrenceService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SpawnNextOccurrence clones a completed recurring task with its due date
// advanced past now. Returns 0 when nothing was spawned. Calling it twice
// with the same snapshot spawns once: an identical pending occurrence is
// detected and skipped, which keeps at-least-once event delivery safe.
func (s *RecurrenceService) SpawnNextOccurrence(ctx context.Context, snapshot domain.TaskSnapshot, userID string) (uint64, error) {
	if snapshot.Recurrence == domain.RecurrenceNone || !snapshot.Recurrence.Valid() {
		return 0, nil
	}
	if snapshot.DueDate == nil {
		s.logger.Warn("recurring task has no due date, cannot spawn next occurrence",
			zap.Uint64("task_id", snapshot.ID),
		)
		return 0, nil
	}

	nextDue := domain.NextDueDateAfter(*snapshot.DueDate, snapshot.Recurrence, 1, s.now())

	exists, err := s.repo.ExistsPending(ctx, userID, snapshot.Title, nextDue)
	if err != nil {
		return 0, err
	}
	if exists {
		s.logger.Info("next occurrence already exists, skipping spawn",
			zap.Uint64("task_id", snapshot.ID),
			zap.Time("due_date", nextDue),
		)
		return 0, nil
	}

	created, err := s.repo.Create(ctx, userID, domain.CreateTaskInput{
		Title:                 snapshot.Title,
		Description:           snapshot.Description,
		Priority:              snapshot.Priority,
		DueDate:               &nextDue,
		ReminderOffsetMinutes: snapshot.ReminderOffsetMinutes,
		Recurrence:            snapshot.Recurrence,
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("spawned next recurring occurrence",
		zap.Uint64("completed_task_id", snapshot.ID),
		zap.Uint64("new_task_id", created.ID),
		zap.Time("due_date", nextDue),
	)
	return created.ID, nil
}
