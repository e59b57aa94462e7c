package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/adapter/http/mapper"
	"taskpilot/internal/adapter/http/middleware"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
	"taskpilot/pkg/apierrors"
)

type ConversationHandler struct {
	conversationService ports.ConversationService
}

func NewConversationHandler(conversationService ports.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

func (h *ConversationHandler) ListConversations(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	conversations, err := h.conversationService.List(c.Request.Context(), userID)
	if err != nil {
		zap.L().Error("failed to list conversations", zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListConversations, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToConversationItems(conversations))
}

func (h *ConversationHandler) GetConversation(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)
	conversationID := c.Param("id")

	conversation, err := h.conversationService.Get(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgConversationNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to get conversation",
			zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListConversations, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToConversationItem(conversation))
}

func (h *ConversationHandler) GetConversationMessages(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)
	conversationID := c.Param("id")

	messages, err := h.conversationService.Messages(c.Request.Context(), userID, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgConversationNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to list conversation messages",
			zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListConversations, lang),
		)
		return
	}

	c.JSON(http.StatusOK, mapper.ToMessageItems(messages))
}

func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)
	conversationID := c.Param("id")

	if err := h.conversationService.Delete(c.Request.Context(), userID, conversationID); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			c.JSON(
				http.StatusNotFound,
				apierrors.CreateError(http.StatusNotFound, apierrors.MsgConversationNotFound, lang),
			)
			return
		}

		zap.L().Error("failed to delete conversation",
			zap.String("conversation_id", conversationID), zap.Error(err))
		c.JSON(
			http.StatusInternalServerError,
			apierrors.CreateError(http.StatusInternalServerError, apierrors.MsgFailListConversations, lang),
		)
		return
	}

	c.Status(http.StatusNoContent)
}
