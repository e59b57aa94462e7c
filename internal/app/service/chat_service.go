package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"taskpilot/internal/app/agent"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
	"taskpilot/pkg/backoff"
)

// Friendly texts persisted as the assistant's answer when the model
// call ultimately fails, so the conversation record never ends on a
// dangling user message.
const (
	msgModelRateLimited = "I'm receiving too many requests right now. Please wait a moment and try again."
	msgModelUnavailable = "I'm having trouble reaching my language model right now. Please try again in a few moments."
	msgModelFailed      = "Something went wrong while processing your message. Please try again."
)

// ChatService runs one conversational turn: resolve the conversation,
// persist the user message, drive the agent loop, persist the
// assistant's answer with its tool-call record.
type ChatService struct {
	conversations ports.ConversationService
	tasks         ports.TaskService
	client        ports.ChatClient
	policy        backoff.Policy
	attempts      int
	logger        *zap.Logger
}

func NewChatService(
	conversations ports.ConversationService,
	tasks ports.TaskService,
	client ports.ChatClient,
	policy backoff.Policy,
	attempts int,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		conversations: conversations,
		tasks:         tasks,
		client:        client,
		policy:        policy,
		attempts:      attempts,
		logger:        logger,
	}
}

func (s *ChatService) Turn(ctx context.Context, userID, conversationID, message string) (domain.Conversation, agent.TurnResult, error) {
	conversation, err := s.conversations.GetOrCreate(ctx, userID, conversationID, message)
	if err != nil {
		return domain.Conversation{}, agent.TurnResult{}, err
	}

	stored, err := s.conversations.Messages(ctx, userID, conversation.ID)
	if err != nil {
		return domain.Conversation{}, agent.TurnResult{}, err
	}
	history := make([]ports.ChatMessage, 0, len(stored))
	for _, m := range stored {
		history = append(history, ports.ChatMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	if _, err := s.conversations.AppendMessage(ctx, conversation.ID, domain.RoleUser, message, nil); err != nil {
		return domain.Conversation{}, agent.TurnResult{}, err
	}

	loop := agent.NewLoop(s.client, agent.NewRouter(s.tasks, userID), s.policy, s.attempts, s.logger)
	result, err := loop.Run(ctx, history, message)
	if err != nil {
		s.persistAssistant(ctx, conversation.ID, friendlyFailure(err), nil)
		return conversation, agent.TurnResult{}, err
	}

	var toolCalls *string
	if len(result.ToolCalls) > 0 {
		if serialized, err := json.Marshal(result.ToolCalls); err == nil {
			value := string(serialized)
			toolCalls = &value
		} else {
			s.logger.Error("serialize tool calls", zap.Error(err))
		}
	}
	s.persistAssistant(ctx, conversation.ID, result.Response, toolCalls)

	return conversation, result, nil
}

// persistAssistant logs and moves on when the write fails: the answer
// has already been produced and belongs to the caller either way.
func (s *ChatService) persistAssistant(ctx context.Context, conversationID, content string, toolCalls *string) {
	if _, err := s.conversations.AppendMessage(ctx, conversationID, domain.RoleAssistant, content, toolCalls); err != nil {
		s.logger.Error("persist assistant message",
			zap.String("conversation_id", conversationID), zap.Error(err))
	}
}

func friendlyFailure(err error) string {
	switch {
	case ports.RateLimited(err):
		return msgModelRateLimited
	case ports.RetryableUpstream(err):
		return msgModelUnavailable
	default:
		return msgModelFailed
	}
}
