package dto

type ConversationItem struct {
	ID        string  `json:"id"`
	Title     *string `json:"title"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type MessageItem struct {
	ID        uint64  `json:"id"`
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	ToolCalls *string `json:"tool_calls,omitempty"`
	CreatedAt string  `json:"created_at"`
}
