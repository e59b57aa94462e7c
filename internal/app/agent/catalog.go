package agent

import "taskpilot/internal/core/ports"

// Catalog returns the static set of operations exposed to the language
// model. Parameter schemas follow the JSON-schema subset the chat
// completions API understands.
func Catalog() []ports.ToolSpec {
	return []ports.ToolSpec{
		{
			Name:        "add_task",
			Description: "Add a new task to the user's todo list. Use this when the user wants to create, add, or make a new task. Supports priority, tags, due dates, reminders, and recurrence.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "The title or name of the task to add",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "Optional detailed description of the task",
					},
					"priority": map[string]any{
						"type":        "string",
						"enum":        []string{"high", "medium", "low"},
						"description": "Priority level. Default: medium",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Optional list of tags (e.g., ['work', 'urgent'])",
					},
					"due_date": map[string]any{
						"type":        "string",
						"description": "Optional due date in ISO 8601 format (e.g., 2026-02-10T14:00:00Z)",
					},
					"reminder_offset_minutes": map[string]any{
						"type":        "integer",
						"description": "Minutes before due_date to send a reminder (e.g., 30 for 30 min before)",
					},
					"recurrence": map[string]any{
						"type":        "string",
						"enum":        []string{"none", "daily", "weekly", "monthly"},
						"description": "Recurrence pattern. Default: none. Requires due_date.",
					},
				},
				"required": []string{"title"},
			},
		},
		{
			Name:        "list_tasks",
			Description: "List tasks for the user with optional search, filter, and sort. Use when the user wants to see, view, show, search, or filter their tasks.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"include_completed": map[string]any{
						"type":        "boolean",
						"description": "Whether to include completed tasks. Default: true.",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum number of tasks to return. Default: 50.",
					},
					"priority": map[string]any{
						"type":        "string",
						"enum":        []string{"high", "medium", "low"},
						"description": "Filter by priority level.",
					},
					"tag": map[string]any{
						"type":        "string",
						"description": "Filter by tag (e.g., 'work').",
					},
					"search": map[string]any{
						"type":        "string",
						"description": "Search keyword in task title and description.",
					},
					"sort": map[string]any{
						"type":        "string",
						"enum":        []string{"due_date", "priority", "title", "created_at"},
						"description": "Sort results by this field.",
					},
					"status": map[string]any{
						"type":        "string",
						"enum":        []string{"all", "pending", "completed"},
						"description": "Filter by task status.",
					},
				},
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as completed. Use this when the user wants to complete, finish, check off, or mark a task as done.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{
						"type":        "integer",
						"description": "The ID of the task to mark as completed",
					},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a task from the todo list. Use this when the user wants to remove, delete, or get rid of a task.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{
						"type":        "integer",
						"description": "The ID of the task to delete",
					},
				},
				"required": []string{"task_id"},
			},
		},
		{
			Name:        "update_task",
			Description: "Update a task's fields including title, description, priority, tags, due date, reminder, or recurrence. Use when the user wants to edit, modify, change, or rename a task.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"task_id": map[string]any{
						"type":        "integer",
						"description": "The ID of the task to update",
					},
					"title": map[string]any{
						"type":        "string",
						"description": "The new title for the task",
					},
					"description": map[string]any{
						"type":        "string",
						"description": "The new description for the task",
					},
					"priority": map[string]any{
						"type":        "string",
						"enum":        []string{"high", "medium", "low"},
						"description": "New priority level",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "New tags (replaces existing tags)",
					},
					"due_date": map[string]any{
						"type":        "string",
						"description": "New due date in ISO 8601 format",
					},
					"reminder_offset_minutes": map[string]any{
						"type":        "integer",
						"description": "Minutes before due_date to send reminder",
					},
					"recurrence": map[string]any{
						"type":        "string",
						"enum":        []string{"none", "daily", "weekly", "monthly"},
						"description": "New recurrence pattern",
					},
				},
				"required": []string{"task_id"},
			},
		},
	}
}
