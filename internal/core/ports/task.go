package ports

import (
	"context"
	"time"

	"taskpilot/internal/core/domain"
)

type TaskRepository interface {
	Create(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error)
	GetByID(ctx context.Context, taskID uint64) (domain.Task, error)
	List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task domain.Task) (domain.Task, error)
	ReplaceTags(ctx context.Context, taskID uint64, tags []string) error
	Delete(ctx context.Context, taskID uint64) error
	// ExistsPending reports whether the user already has an uncompleted
	// task with the given title and due date. Used to keep recurring
	// spawns idempotent under at-least-once event delivery.
	ExistsPending(ctx context.Context, userID, title string, dueDate time.Time) (bool, error)
}

type TaskService interface {
	Create(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error)
	Get(ctx context.Context, userID string, taskID uint64) (domain.Task, error)
	List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, userID string, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error)
	Complete(ctx context.Context, userID string, taskID uint64) (domain.Task, error)
	Delete(ctx context.Context, userID string, taskID uint64) (domain.Task, error)
}
