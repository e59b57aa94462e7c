package domain

import "time"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

type Recurrence string

const (
	RecurrenceNone    Recurrence = "none"
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

type Task struct {
	ID                    uint64
	UserID                string
	Title                 string
	Description           string
	Completed             bool
	Priority              Priority
	DueDate               *time.Time
	ReminderOffsetMinutes *int
	Recurrence            Recurrence
	IsRecurring           bool
	Tags                  []string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type CreateTaskInput struct {
	Title                 string
	Description           string
	Priority              Priority
	DueDate               *time.Time
	ReminderOffsetMinutes *int
	Recurrence            Recurrence
	Tags                  []string
}

// UpdateTaskInput carries partial updates. The *Set flags distinguish
// "clear this field" from "leave it untouched" for nullable fields.
type UpdateTaskInput struct {
	Title                 *string
	Description           *string
	Priority              *Priority
	DueDate               *time.Time
	DueDateSet            bool
	ReminderOffsetMinutes *int
	ReminderOffsetSet     bool
	Recurrence            *Recurrence
	Tags                  []string
	TagsSet               bool
}

type TaskSort string

const (
	TaskSortDueDate   TaskSort = "due_date"
	TaskSortPriority  TaskSort = "priority"
	TaskSortTitle     TaskSort = "title"
	TaskSortCreatedAt TaskSort = "created_at"
)

type TaskStatusFilter string

const (
	TaskStatusAll       TaskStatusFilter = "all"
	TaskStatusPending   TaskStatusFilter = "pending"
	TaskStatusCompleted TaskStatusFilter = "completed"
)

type TaskFilter struct {
	Search     string
	Priority   Priority
	Tag        string
	Status     TaskStatusFilter
	DueFrom    *time.Time
	DueTo      *time.Time
	Sort       TaskSort
	Descending bool
	Limit      int
}
