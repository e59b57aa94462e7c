package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/core/domain"
)

type conversationRepositoryMock struct {
	mock.Mock
}

func (m *conversationRepositoryMock) Create(ctx context.Context, userID string, title *string) (domain.Conversation, error) {
	args := m.Called(ctx, userID, title)
	return args.Get(0).(domain.Conversation), args.Error(1)
}

func (m *conversationRepositoryMock) GetByID(ctx context.Context, conversationID string) (domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).(domain.Conversation), args.Error(1)
}

func (m *conversationRepositoryMock) List(ctx context.Context, userID string, limit int) ([]domain.Conversation, error) {
	args := m.Called(ctx, userID, limit)

	var conversations []domain.Conversation
	if value := args.Get(0); value != nil {
		conversations = value.([]domain.Conversation)
	}
	return conversations, args.Error(1)
}

func (m *conversationRepositoryMock) Delete(ctx context.Context, conversationID string) error {
	args := m.Called(ctx, conversationID)
	return args.Error(0)
}

func (m *conversationRepositoryMock) AddMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error) {
	args := m.Called(ctx, conversationID, role, content, toolCalls)
	return args.Get(0).(domain.Message), args.Error(1)
}

func (m *conversationRepositoryMock) ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, limit)

	var messages []domain.Message
	if value := args.Get(0); value != nil {
		messages = value.([]domain.Message)
	}
	return messages, args.Error(1)
}

func TestConversationService_GetOrCreate_TitlesFromOpeningMessage(t *testing.T) {
	repo := new(conversationRepositoryMock)
	repo.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(title *string) bool {
		return title != nil && *title == "remind me to pay rent"
	})).Return(domain.Conversation{ID: "conv-1"}, nil).Once()

	svc := NewConversationService(repo)
	conv, err := svc.GetOrCreate(context.Background(), "user-1", "", "remind me to pay rent")

	require.NoError(t, err)
	require.Equal(t, "conv-1", conv.ID)
	repo.AssertExpectations(t)
}

func TestConversationService_GetOrCreate_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("x", 80)

	repo := new(conversationRepositoryMock)
	repo.On("Create", mock.Anything, "user-1", mock.MatchedBy(func(title *string) bool {
		return title != nil && *title == strings.Repeat("x", 50)+"..."
	})).Return(domain.Conversation{ID: "conv-2"}, nil).Once()

	svc := NewConversationService(repo)
	_, err := svc.GetOrCreate(context.Background(), "user-1", "", long)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestConversationService_Get_HidesOtherOwnersConversations(t *testing.T) {
	repo := new(conversationRepositoryMock)
	repo.On("GetByID", mock.Anything, "conv-3").
		Return(domain.Conversation{ID: "conv-3", UserID: "someone-else"}, nil).Once()

	svc := NewConversationService(repo)
	_, err := svc.Get(context.Background(), "user-1", "conv-3")

	require.ErrorIs(t, err, domain.ErrConversationNotFound)
	repo.AssertExpectations(t)
}

func TestConversationService_Delete_ChecksOwnershipFirst(t *testing.T) {
	repo := new(conversationRepositoryMock)
	repo.On("GetByID", mock.Anything, "conv-4").
		Return(domain.Conversation{ID: "conv-4", UserID: "user-1"}, nil).Once()
	repo.On("Delete", mock.Anything, "conv-4").Return(nil).Once()

	svc := NewConversationService(repo)
	require.NoError(t, svc.Delete(context.Background(), "user-1", "conv-4"))
	repo.AssertExpectations(t)
}
