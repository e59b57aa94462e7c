package ports

import (
	"context"

	"taskpilot/internal/core/domain"
)

type ConversationRepository interface {
	Create(ctx context.Context, userID string, title *string) (domain.Conversation, error)
	GetByID(ctx context.Context, conversationID string) (domain.Conversation, error)
	List(ctx context.Context, userID string, limit int) ([]domain.Conversation, error)
	Delete(ctx context.Context, conversationID string) error
	AddMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error)
	ListMessages(ctx context.Context, conversationID string, limit int) ([]domain.Message, error)
}

type ConversationService interface {
	GetOrCreate(ctx context.Context, userID string, conversationID, firstMessage string) (domain.Conversation, error)
	Get(ctx context.Context, userID, conversationID string) (domain.Conversation, error)
	List(ctx context.Context, userID string) ([]domain.Conversation, error)
	Delete(ctx context.Context, userID, conversationID string) error
	AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error)
	Messages(ctx context.Context, userID, conversationID string) ([]domain.Message, error)
}
