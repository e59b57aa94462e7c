package dto

type ChatRequest struct {
	ConversationID *string `json:"conversation_id" binding:"omitempty,uuid"`
	Message        string  `json:"message" binding:"required,max=4000"`
}

type ChatToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type ChatResponse struct {
	ConversationID string         `json:"conversation_id"`
	Response       string         `json:"response"`
	ToolCalls      []ChatToolCall `json:"tool_calls"`
}
