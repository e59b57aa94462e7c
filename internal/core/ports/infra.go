package ports

import (
	"context"
	"time"

	"taskpilot/internal/core/domain"
)

// EventPublisher delivers task lifecycle events to the pub/sub transport.
// Publication is best-effort: a false return means the event was dropped
// (transport down, rejected) and the caller proceeds regardless. A failed
// publish must never roll back or block the task mutation that caused it.
type EventPublisher interface {
	Publish(ctx context.Context, topic, eventType string, taskID uint64, snapshot domain.TaskSnapshot, userID string) bool
}

// ReminderScheduler registers one-shot reminder jobs with the external
// job scheduler. At most one live job exists per task; scheduling again
// replaces the previous registration at the transport level.
type ReminderScheduler interface {
	// Schedule registers a job firing at dueDate minus offsetMinutes.
	// Returns false without an outbound call when the fire instant is
	// already in the past.
	Schedule(ctx context.Context, taskID uint64, userID string, dueDate time.Time, offsetMinutes int) bool
	// Cancel removes the job for a task. Cancelling a job that no longer
	// exists is success.
	Cancel(ctx context.Context, taskID uint64) bool
}

// Notification is one payload delivered over a user's live-push channel.
type Notification struct {
	Type    string `json:"type"`
	TaskID  uint64 `json:"task_id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// NotificationHub is the per-user live-push channel. Delivery is
// best-effort and process-local: a push with no connected subscriber is
// dropped, nothing is replayed to late subscribers.
type NotificationHub interface {
	Push(userID string, n Notification)
	// Subscribe returns the user's payload channel and a release func the
	// subscriber must call on disconnect. Concurrent subscribers for the
	// same user compete for payloads; each payload is delivered to
	// exactly one of them.
	Subscribe(userID string) (<-chan Notification, func())
}
