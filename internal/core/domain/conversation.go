package domain

import "time"

type Conversation struct {
	ID        string
	UserID    string
	Title     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is append-only: once stored it is never mutated.
type Message struct {
	ID             uint64
	ConversationID string
	Role           MessageRole
	Content        string
	// ToolCalls is the serialized record of tool invocations made while
	// producing an assistant message, nil for user messages.
	ToolCalls *string
	CreatedAt time.Time
}
