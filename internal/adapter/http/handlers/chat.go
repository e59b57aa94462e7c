package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/adapter/http/middleware"
	"taskpilot/internal/app/agent"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
	"taskpilot/pkg/apierrors"
)

// ChatRunner drives one conversational turn end to end.
type ChatRunner interface {
	Turn(ctx context.Context, userID, conversationID, message string) (domain.Conversation, agent.TurnResult, error)
}

type ChatHandler struct {
	chat ChatRunner
}

func NewChatHandler(chat ChatRunner) *ChatHandler {
	return &ChatHandler{chat: chat}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			apierrors.CreateError(http.StatusBadRequest, apierrors.MsgInvalidChatPayload, lang),
		)
		return
	}

	conversationID := ""
	if req.ConversationID != nil {
		conversationID = *req.ConversationID
	}

	conversation, result, err := h.chat.Turn(c.Request.Context(), userID, conversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConversationNotFound):
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgConversationNotFound, lang),
			)
		case ports.RateLimited(err):
			c.JSON(
				http.StatusTooManyRequests,
				apierrors.CreateError(http.StatusTooManyRequests, apierrors.MsgChatRateLimited, lang),
			)
		case ports.RetryableUpstream(err):
			zap.L().Error("model api unavailable", zap.Error(err))
			c.JSON(
				http.StatusServiceUnavailable,
				apierrors.CreateError(http.StatusServiceUnavailable, apierrors.MsgChatUnavailable, lang),
			)
		default:
			zap.L().Error("chat turn failed", zap.Error(err))
			c.JSON(
				http.StatusInternalServerError,
				apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgChatFailed, lang),
			)
		}
		return
	}

	toolCalls := make([]dto.ChatToolCall, 0, len(result.ToolCalls))
	for _, call := range result.ToolCalls {
		toolCalls = append(toolCalls, dto.ChatToolCall{
			Name:      call.Name,
			Arguments: call.Arguments,
		})
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		ConversationID: conversation.ID,
		Response:       result.Response,
		ToolCalls:      toolCalls,
	})
}
