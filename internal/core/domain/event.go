package domain

import "time"

// Task lifecycle event types published to the message transport.
const (
	EventTaskCreated   = "task.created"
	EventTaskUpdated   = "task.updated"
	EventTaskCompleted = "task.completed"
	EventTaskDeleted   = "task.deleted"
	EventReminderDue   = "reminder.due"
)

// TaskSnapshot is the serializable view of a task carried inside an event
// envelope. It is ephemeral: events are the unit of communication with the
// pub/sub transport, never persisted by this service.
type TaskSnapshot struct {
	ID                    uint64     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	Completed             bool       `json:"completed"`
	Priority              Priority   `json:"priority"`
	Recurrence            Recurrence `json:"recurrence"`
	IsRecurring           bool       `json:"is_recurring"`
	DueDate               *time.Time `json:"due_date,omitempty"`
	ReminderOffsetMinutes *int       `json:"reminder_offset_minutes,omitempty"`
	CreatedAt             *time.Time `json:"created_at,omitempty"`
}

func SnapshotOf(t Task) TaskSnapshot {
	snap := TaskSnapshot{
		ID:                    t.ID,
		Title:                 t.Title,
		Description:           t.Description,
		Completed:             t.Completed,
		Priority:              t.Priority,
		Recurrence:            t.Recurrence,
		IsRecurring:           t.IsRecurring,
		DueDate:               t.DueDate,
		ReminderOffsetMinutes: t.ReminderOffsetMinutes,
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		snap.CreatedAt = &created
	}
	return snap
}
