package dto

type TaskItem struct {
	ID                    uint64   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description,omitempty"`
	Completed             bool     `json:"completed"`
	Priority              string   `json:"priority"`
	DueDate               *string  `json:"due_date,omitempty"`
	ReminderOffsetMinutes *int     `json:"reminder_offset_minutes,omitempty"`
	Recurrence            string   `json:"recurrence"`
	IsRecurring           bool     `json:"is_recurring"`
	Tags                  []string `json:"tags"`
	CreatedAt             string   `json:"created_at"`
	UpdatedAt             string   `json:"updated_at"`
}

type CreateTaskRequest struct {
	Title                 string   `json:"title" binding:"required,max=200"`
	Description           *string  `json:"description" binding:"omitempty,max=1000"`
	Priority              *string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	DueDate               *string  `json:"due_date"`
	ReminderOffsetMinutes *int     `json:"reminder_offset_minutes" binding:"omitempty,gte=0"`
	Recurrence            *string  `json:"recurrence" binding:"omitempty,oneof=none daily weekly monthly"`
	Tags                  []string `json:"tags"`
}

type UpdateTaskRequest struct {
	Title                 *string  `json:"title" binding:"omitempty,max=200"`
	Description           *string  `json:"description" binding:"omitempty,max=1000"`
	Priority              *string  `json:"priority" binding:"omitempty,oneof=high medium low"`
	DueDate               *string  `json:"due_date"`
	ReminderOffsetMinutes *int     `json:"reminder_offset_minutes" binding:"omitempty,gte=0"`
	Recurrence            *string  `json:"recurrence" binding:"omitempty,oneof=none daily weekly monthly"`
	Tags                  []string `json:"tags"`
}
