package service

import (
	"context"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

const (
	conversationTitleMax = 50
	conversationLimit    = 50
	messageLimit         = 100
)

type ConversationService struct {
	repo ports.ConversationRepository
}

func NewConversationService(repo ports.ConversationRepository) *ConversationService {
	return &ConversationService{repo: repo}
}

var _ ports.ConversationService = (*ConversationService)(nil)

// GetOrCreate resumes an existing conversation or starts a new one titled
// after the opening message.
func (s *ConversationService) GetOrCreate(ctx context.Context, userID string, conversationID, firstMessage string) (domain.Conversation, error) {
	if conversationID != "" {
		return s.Get(ctx, userID, conversationID)
	}

	title := firstMessage
	if len([]rune(title)) > conversationTitleMax {
		title = string([]rune(title)[:conversationTitleMax]) + "..."
	}
	return s.repo.Create(ctx, userID, &title)
}

func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (domain.Conversation, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return domain.Conversation{}, err
	}
	if conv.UserID != userID {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return conv, nil
}

func (s *ConversationService) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.repo.List(ctx, userID, conversationLimit)
}

func (s *ConversationService) Delete(ctx context.Context, userID, conversationID string) error {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, conversationID)
}

func (s *ConversationService) AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string, toolCalls *string) (domain.Message, error) {
	return s.repo.AddMessage(ctx, conversationID, role, content, toolCalls)
}

func (s *ConversationService) Messages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	if _, err := s.Get(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, conversationID, messageLimit)
}
