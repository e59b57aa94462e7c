package mapper

import (
	"time"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		Recurrence:  string(task.Recurrence),
		IsRecurring: task.IsRecurring,
		Tags:        task.Tags,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if task.DueDate != nil {
		value := task.DueDate.Format(time.RFC3339)
		item.DueDate = &value
	}

	if task.ReminderOffsetMinutes != nil {
		value := *task.ReminderOffsetMinutes
		item.ReminderOffsetMinutes = &value
	}

	return item
}
