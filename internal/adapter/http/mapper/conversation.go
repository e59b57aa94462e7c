package mapper

import (
	"time"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/domain"
)

func ToConversationItems(conversations []domain.Conversation) []dto.ConversationItem {
	items := make([]dto.ConversationItem, 0, len(conversations))
	for _, conversation := range conversations {
		items = append(items, ToConversationItem(conversation))
	}
	return items
}

func ToConversationItem(conversation domain.Conversation) dto.ConversationItem {
	return dto.ConversationItem{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt.Format(time.RFC3339),
		UpdatedAt: conversation.UpdatedAt.Format(time.RFC3339),
	}
}

func ToMessageItems(messages []domain.Message) []dto.MessageItem {
	items := make([]dto.MessageItem, 0, len(messages))
	for _, message := range messages {
		items = append(items, dto.MessageItem{
			ID:        message.ID,
			Role:      string(message.Role),
			Content:   message.Content,
			ToolCalls: message.ToolCalls,
			CreatedAt: message.CreatedAt.Format(time.RFC3339),
		})
	}
	return items
}
