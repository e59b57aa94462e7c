package tests

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"taskpilot/internal/app/agent"
	"taskpilot/internal/core/domain"
)

// asUser injects the authenticated user id the way the auth middleware
// would, without minting tokens in every test.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

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

type conversationServiceMock struct {
	mock.Mock
}

func (m *conversationServiceMock) GetOrCreate(ctx context.Context, userID string, conversationID, firstMessage string) (domain.Conversation, error) {
	args := m.Called(ctx, userID, conversationID, firstMessage)
	return args.Get(0).(domain.Conversation), args.Error(1)
}

func (m *conversationServiceMock) Get(ctx context.Context, userID, conversationID string) (domain.Conversation, error) {
	args := m.Called(ctx, userID, conversationID)
	return args.Get(0).(domain.Conversation), args.Error(1)
}

func (m *conversationServiceMock) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID)

	var conversations []domain.Conversation
	if value := args.Get(0); value != nil {
		conversations = value.([]domain.Conversation)
	}
	return conversations, args.Error(1)
}

func (m *conversationServiceMock) Delete(ctx context.Context, userID, conversationID string) error {
	args := m.Called(ctx, userID, conversationID)
	return args.Error(0)
}

func (m *conversationServiceMock) AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error) {
	args := m.Called(ctx, conversationID, role, content, toolCalls)
	return args.Get(0).(domain.Message), args.Error(1)
}

func (m *conversationServiceMock) Messages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	args := m.Called(ctx, userID, conversationID)

	var messages []domain.Message
	if value := args.Get(0); value != nil {
		messages = value.([]domain.Message)
	}
	return messages, args.Error(1)
}

type chatRunnerMock struct {
	mock.Mock
}

func (m *chatRunnerMock) Turn(ctx context.Context, userID, conversationID, message string) (domain.Conversation, agent.TurnResult, error) {
	args := m.Called(ctx, userID, conversationID, message)
	return args.Get(0).(domain.Conversation), args.Get(1).(agent.TurnResult), args.Error(2)
}

type recurrenceSpawnerMock struct {
	mock.Mock
}

func (m *recurrenceSpawnerMock) SpawnNextOccurrence(ctx context.Context, snapshot domain.TaskSnapshot, userID string) (uint64, error) {
	args := m.Called(ctx, snapshot, userID)
	return args.Get(0).(uint64), args.Error(1)
}

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, topic, eventType string, taskID uint64, snapshot domain.TaskSnapshot, userID string) bool {
	args := m.Called(ctx, topic, eventType, taskID, snapshot, userID)
	return args.Bool(0)
}
