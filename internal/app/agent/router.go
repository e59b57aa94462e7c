package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

const (
	titleMaxLen       = 200
	descriptionMaxLen = 1000
	tagMaxLen         = 50
	defaultListLimit  = 50
)

// ToolResult is the uniform envelope fed back to the model. Failures are
// data, not errors: a bad argument or a missing task becomes a failure
// result the model can react to, never a panic or error across the
// agent-loop boundary.
type ToolResult struct {
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(format string, args ...any) ToolResult {
	return ToolResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

type toolName string

const (
	toolAddTask      toolName = "add_task"
	toolListTasks    toolName = "list_tasks"
	toolCompleteTask toolName = "complete_task"
	toolDeleteTask   toolName = "delete_task"
	toolUpdateTask   toolName = "update_task"
)

// Router executes tool calls against the task service on behalf of one
// user. The owner id is fixed at construction; nothing in a tool's
// argument bag can address another user's tasks.
type Router struct {
	tasks  ports.TaskService
	userID string
}

func NewRouter(tasks ports.TaskService, userID string) *Router {
	return &Router{tasks: tasks, userID: userID}
}

// Execute dispatches over the closed set of tools. Adding a tool means
// adding a case here and an entry in the catalog.
func (r *Router) Execute(ctx context.Context, name string, argsJSON string) ToolResult {
	switch toolName(name) {
	case toolAddTask:
		return r.addTask(ctx, argsJSON)
	case toolListTasks:
		return r.listTasks(ctx, argsJSON)
	case toolCompleteTask:
		return r.completeTask(ctx, argsJSON)
	case toolDeleteTask:
		return r.deleteTask(ctx, argsJSON)
	case toolUpdateTask:
		return r.updateTask(ctx, argsJSON)
	default:
		return failure("Unknown tool: %s", name)
	}
}

type addTaskArgs struct {
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Priority              string   `json:"priority"`
	Tags                  []string `json:"tags"`
	DueDate               string   `json:"due_date"`
	ReminderOffsetMinutes *int     `json:"reminder_offset_minutes"`
	Recurrence            string   `json:"recurrence"`
}

func (r *Router) addTask(ctx context.Context, argsJSON string) ToolResult {
	var args addTaskArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return failure("Invalid tool arguments: %v", err)
	}

	title := strings.TrimSpace(args.Title)
	if title == "" {
		return failure("Task title is required")
	}
	if utf8.RuneCountInString(title) > titleMaxLen {
		return failure("Task title must be %d characters or less", titleMaxLen)
	}
	if utf8.RuneCountInString(args.Description) > descriptionMaxLen {
		return failure("Task description must be %d characters or less", descriptionMaxLen)
	}

	priority := domain.PriorityMedium
	if args.Priority != "" {
		priority = domain.Priority(args.Priority)
		if !priority.Valid() {
			return failure("Priority must be high, medium, or low")
		}
	}

	recurrence := domain.RecurrenceNone
	if args.Recurrence != "" {
		recurrence = domain.Recurrence(args.Recurrence)
		if !recurrence.Valid() {
			return failure("Recurrence must be none, daily, weekly, or monthly")
		}
	}

	var dueDate *time.Time
	if args.DueDate != "" {
		parsed, err := parseDueDate(args.DueDate)
		if err != nil {
			return failure("Invalid due_date format. Use ISO 8601.")
		}
		dueDate = &parsed
	}

	if recurrence != domain.RecurrenceNone && dueDate == nil {
		return failure("Recurring tasks must have a due_date")
	}

	task, err := r.tasks.Create(ctx, r.userID, domain.CreateTaskInput{
		Title:                 title,
		Description:           strings.TrimSpace(args.Description),
		Priority:              priority,
		DueDate:               dueDate,
		ReminderOffsetMinutes: args.ReminderOffsetMinutes,
		Recurrence:            recurrence,
		Tags:                  cleanTags(args.Tags),
	})
	if err != nil {
		return failure("Failed to create task: %v", err)
	}

	return ToolResult{
		Success: true,
		Payload: toTaskView(task),
		Message: fmt.Sprintf("Task '%s' has been added successfully.", task.Title),
	}
}

type listTasksArgs struct {
	IncludeCompleted *bool  `json:"include_completed"`
	Limit            int    `json:"limit"`
	Priority         string `json:"priority"`
	Tag              string `json:"tag"`
	Search           string `json:"search"`
	Sort             string `json:"sort"`
	Status           string `json:"status"`
}

func (r *Router) listTasks(ctx context.Context, argsJSON string) ToolResult {
	var args listTasksArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return failure("Invalid tool arguments: %v", err)
	}

	filter := domain.TaskFilter{
		Search: strings.TrimSpace(args.Search),
		Tag:    strings.ToLower(strings.TrimSpace(args.Tag)),
		Limit:  defaultListLimit,
	}
	if args.Limit > 0 {
		filter.Limit = args.Limit
	}
	if p := domain.Priority(args.Priority); args.Priority != "" && p.Valid() {
		filter.Priority = p
	}
	switch domain.TaskStatusFilter(args.Status) {
	case domain.TaskStatusPending, domain.TaskStatusCompleted:
		filter.Status = domain.TaskStatusFilter(args.Status)
	default:
		if args.IncludeCompleted != nil && !*args.IncludeCompleted {
			filter.Status = domain.TaskStatusPending
		}
	}
	switch domain.TaskSort(args.Sort) {
	case domain.TaskSortDueDate, domain.TaskSortPriority, domain.TaskSortTitle, domain.TaskSortCreatedAt:
		filter.Sort = domain.TaskSort(args.Sort)
	}

	tasks, err := r.tasks.List(ctx, r.userID, filter)
	if err != nil {
		return failure("Failed to list tasks: %v", err)
	}

	views := make([]taskView, 0, len(tasks))
	pending, completed := 0, 0
	for _, t := range tasks {
		views = append(views, toTaskView(t))
		if t.Completed {
			completed++
		} else {
			pending++
		}
	}

	return ToolResult{
		Success: true,
		Payload: map[string]any{
			"tasks":     views,
			"total":     len(views),
			"pending":   pending,
			"completed": completed,
		},
		Message: fmt.Sprintf("Found %d task(s): %d pending, %d completed.", len(views), pending, completed),
	}
}

type taskIDArgs struct {
	TaskID uint64 `json:"task_id"`
}

func (r *Router) completeTask(ctx context.Context, argsJSON string) ToolResult {
	var args taskIDArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return failure("Invalid tool arguments: %v", err)
	}
	if args.TaskID == 0 {
		return failure("task_id is required")
	}

	task, err := r.tasks.Complete(ctx, r.userID, args.TaskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return failure("Task with ID %d not found", args.TaskID)
		}
		return failure("Failed to complete task: %v", err)
	}

	return ToolResult{
		Success: true,
		Payload: toTaskView(task),
		Message: fmt.Sprintf("Task '%s' has been marked as completed.", task.Title),
	}
}

func (r *Router) deleteTask(ctx context.Context, argsJSON string) ToolResult {
	var args taskIDArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return failure("Invalid tool arguments: %v", err)
	}
	if args.TaskID == 0 {
		return failure("task_id is required")
	}

	task, err := r.tasks.Delete(ctx, r.userID, args.TaskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return failure("Task with ID %d not found", args.TaskID)
		}
		return failure("Failed to delete task: %v", err)
	}

	return ToolResult{
		Success: true,
		Payload: map[string]any{"deleted_task_id": task.ID},
		Message: fmt.Sprintf("Task '%s' has been deleted.", task.Title),
	}
}

type updateTaskArgs struct {
	TaskID                uint64    `json:"task_id"`
	Title                 *string   `json:"title"`
	Description           *string   `json:"description"`
	Priority              *string   `json:"priority"`
	Tags                  *[]string `json:"tags"`
	DueDate               *string   `json:"due_date"`
	ReminderOffsetMinutes *int      `json:"reminder_offset_minutes"`
	Recurrence            *string   `json:"recurrence"`
}

func (r *Router) updateTask(ctx context.Context, argsJSON string) ToolResult {
	var args updateTaskArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return failure("Invalid tool arguments: %v", err)
	}
	if args.TaskID == 0 {
		return failure("task_id is required")
	}
	if args.Title == nil && args.Description == nil && args.Priority == nil &&
		args.Tags == nil && args.DueDate == nil && args.ReminderOffsetMinutes == nil && args.Recurrence == nil {
		return failure("At least one field must be provided")
	}

	input := domain.UpdateTaskInput{}

	if args.Title != nil {
		title := strings.TrimSpace(*args.Title)
		if title == "" || utf8.RuneCountInString(title) > titleMaxLen {
			return failure("Title must be between 1 and %d characters", titleMaxLen)
		}
		input.Title = &title
	}
	if args.Description != nil {
		if utf8.RuneCountInString(*args.Description) > descriptionMaxLen {
			return failure("Task description must be %d characters or less", descriptionMaxLen)
		}
		desc := strings.TrimSpace(*args.Description)
		input.Description = &desc
	}
	if args.Priority != nil {
		p := domain.Priority(*args.Priority)
		if !p.Valid() {
			return failure("Priority must be high, medium, or low")
		}
		input.Priority = &p
	}
	if args.DueDate != nil {
		parsed, err := parseDueDate(*args.DueDate)
		if err != nil {
			return failure("Invalid due_date format")
		}
		input.DueDate = &parsed
		input.DueDateSet = true
	}
	if args.ReminderOffsetMinutes != nil {
		input.ReminderOffsetMinutes = args.ReminderOffsetMinutes
		input.ReminderOffsetSet = true
	}
	if args.Recurrence != nil {
		rec := domain.Recurrence(*args.Recurrence)
		if !rec.Valid() {
			return failure("Invalid recurrence value")
		}
		input.Recurrence = &rec
	}
	if args.Tags != nil {
		input.Tags = cleanTags(*args.Tags)
		input.TagsSet = true
	}

	task, err := r.tasks.Update(ctx, r.userID, args.TaskID, input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			return failure("Task with ID %d not found", args.TaskID)
		case errors.Is(err, domain.ErrInvalidTask):
			return failure("Recurring tasks must have a due_date")
		default:
			return failure("Failed to update task: %v", err)
		}
	}

	return ToolResult{
		Success: true,
		Payload: toTaskView(task),
		Message: fmt.Sprintf("Task '%s' has been updated.", task.Title),
	}
}

type taskView struct {
	ID                    uint64   `json:"id"`
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Completed             bool     `json:"completed"`
	Priority              string   `json:"priority"`
	Recurrence            string   `json:"recurrence"`
	IsRecurring           bool     `json:"is_recurring"`
	DueDate               *string  `json:"due_date,omitempty"`
	ReminderOffsetMinutes *int     `json:"reminder_offset_minutes,omitempty"`
	Tags                  []string `json:"tags"`
	CreatedAt             string   `json:"created_at"`
}

func toTaskView(t domain.Task) taskView {
	v := taskView{
		ID:                    t.ID,
		Title:                 t.Title,
		Description:           t.Description,
		Completed:             t.Completed,
		Priority:              string(t.Priority),
		Recurrence:            string(t.Recurrence),
		IsRecurring:           t.IsRecurring,
		ReminderOffsetMinutes: t.ReminderOffsetMinutes,
		Tags:                  t.Tags,
		CreatedAt:             t.CreatedAt.Format(time.RFC3339),
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if t.DueDate != nil {
		due := t.DueDate.Format(time.RFC3339)
		v.DueDate = &due
	}
	return v
}

func parseDueDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	// Date-only input is accepted and pinned to midnight UTC.
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func cleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" || utf8.RuneCountInString(clean) > tagMaxLen {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		cleaned = append(cleaned, clean)
	}
	return cleaned
}
