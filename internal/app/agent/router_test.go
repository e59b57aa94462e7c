package agent

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/core/domain"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) Create(ctx context.Context, userID string, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, userID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) Get(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, userID, filter)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) Update(ctx context.Context, userID string, taskID uint64, input domain.UpdateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, userID, taskID, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) Complete(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) Delete(ctx context.Context, userID string, taskID uint64) (domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	return args.Get(0).(domain.Task), args.Error(1)
}

func TestRouter_Execute_UnknownTool(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := NewRouter(serviceMock, "user-1")

	result := router.Execute(context.Background(), "drop_database", "{}")

	require.False(t, result.Success)
	require.Contains(t, result.Error, "Unknown tool")
	serviceMock.AssertExpectations(t)
}

func TestRouter_AddTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(input domain.CreateTaskInput) bool {
		return input.Title == "Pay rent" &&
			input.Priority == domain.PriorityHigh &&
			input.DueDate != nil &&
			input.DueDate.Equal(time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)) &&
			len(input.Tags) == 2 && input.Tags[0] == "home" && input.Tags[1] == "bills"
	})).Return(domain.Task{ID: 7, Title: "Pay rent", Priority: domain.PriorityHigh}, nil).Once()

	router := NewRouter(serviceMock, "user-1")
	result := router.Execute(context.Background(), "add_task", `{
		"title": " Pay rent ",
		"priority": "high",
		"due_date": "2026-01-31T09:00:00Z",
		"tags": ["Home", "BILLS", "home", " "]
	}`)

	require.True(t, result.Success)
	require.Contains(t, result.Message, "Pay rent")
	serviceMock.AssertExpectations(t)
}

func TestRouter_AddTask_ValidationFailuresSkipService(t *testing.T) {
	cases := []struct {
		name string
		args string
		want string
	}{
		{"missing title", `{"title": "  "}`, "title is required"},
		{"bad priority", `{"title": "x", "priority": "urgent"}`, "Priority must be"},
		{"bad recurrence", `{"title": "x", "recurrence": "hourly", "due_date": "2026-01-01"}`, "Recurrence must be"},
		{"recurring without due date", `{"title": "x", "recurrence": "daily"}`, "must have a due_date"},
		{"bad due date", `{"title": "x", "due_date": "tomorrow"}`, "Invalid due_date"},
		{"malformed json", `{"title":`, "Invalid tool arguments"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			serviceMock := new(taskServiceMock)
			router := NewRouter(serviceMock, "user-1")

			result := router.Execute(context.Background(), "add_task", tc.args)

			require.False(t, result.Success)
			require.Contains(t, result.Error, tc.want)
			serviceMock.AssertExpectations(t)
		})
	}
}

func TestRouter_ListTasks_IncludeCompletedFalseFiltersPending(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("List", mock.Anything, "user-1", mock.MatchedBy(func(filter domain.TaskFilter) bool {
		return filter.Status == domain.TaskStatusPending && filter.Limit == 50
	})).Return([]domain.Task{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b", Completed: true},
	}, nil).Once()

	router := NewRouter(serviceMock, "user-1")
	result := router.Execute(context.Background(), "list_tasks", `{"include_completed": false}`)

	require.True(t, result.Success)
	payload := result.Payload.(map[string]any)
	require.Equal(t, 2, payload["total"])
	require.Equal(t, 1, payload["pending"])
	require.Equal(t, 1, payload["completed"])
	serviceMock.AssertExpectations(t)
}

func TestRouter_CompleteTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Complete", mock.Anything, "user-1", uint64(42)).
		Return(domain.Task{}, domain.ErrTaskNotFound).Once()

	router := NewRouter(serviceMock, "user-1")
	result := router.Execute(context.Background(), "complete_task", `{"task_id": 42}`)

	require.False(t, result.Success)
	require.Contains(t, result.Error, "42 not found")
	serviceMock.AssertExpectations(t)
}

func TestRouter_UpdateTask_RequiresAtLeastOneField(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := NewRouter(serviceMock, "user-1")

	result := router.Execute(context.Background(), "update_task", `{"task_id": 3}`)

	require.False(t, result.Success)
	require.Contains(t, result.Error, "At least one field")
	serviceMock.AssertExpectations(t)
}

func TestRouter_UpdateTask_ReplacesTagsAndTitle(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Update", mock.Anything, "user-1", uint64(3), mock.MatchedBy(func(input domain.UpdateTaskInput) bool {
		return input.TagsSet && len(input.Tags) == 1 && input.Tags[0] == "work" &&
			input.Title != nil && *input.Title == "Renamed"
	})).Return(domain.Task{ID: 3, Title: "Renamed"}, nil).Once()

	router := NewRouter(serviceMock, "user-1")
	result := router.Execute(context.Background(), "update_task", `{
		"task_id": 3,
		"title": "Renamed",
		"tags": ["Work"]
	}`)

	require.True(t, result.Success)
	serviceMock.AssertExpectations(t)
}

func TestRouter_DeleteTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("Delete", mock.Anything, "user-1", uint64(9)).
		Return(domain.Task{ID: 9, Title: "Old task"}, nil).Once()

	router := NewRouter(serviceMock, "user-1")
	result := router.Execute(context.Background(), "delete_task", `{"task_id": 9}`)

	require.True(t, result.Success)
	require.Contains(t, result.Message, "Old task")

	encoded, err := json.Marshal(result.Payload)
	require.NoError(t, err)
	require.JSONEq(t, `{"deleted_task_id": 9}`, string(encoded))
	serviceMock.AssertExpectations(t)
}

func TestCleanTags(t *testing.T) {
	got := cleanTags([]string{" Work ", "WORK", "", "home", "work"})
	require.Equal(t, []string{"work", "home"}, got)
}
