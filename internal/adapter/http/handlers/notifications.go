package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/adapter/http/middleware"
	"taskpilot/internal/core/ports"
	"taskpilot/pkg/apierrors"
)

// NotificationHandler streams reminder notifications to the browser
// over server-sent events.
type NotificationHandler struct {
	hub       ports.NotificationHub
	keepalive time.Duration
}

func NewNotificationHandler(hub ports.NotificationHub, keepalive time.Duration) *NotificationHandler {
	return &NotificationHandler{hub: hub, keepalive: keepalive}
}

// Stream holds the connection open and forwards the user's queued
// notifications as they arrive. A comment frame goes out periodically
// so proxies do not reap the idle connection.
func (h *NotificationHandler) Stream(c *gin.Context) {
	lang := middleware.GetLang(c)
	userID := middleware.GetUserID(c)

	if c.Param("user_id") != userID {
		c.JSON(
			http.StatusForbidden,
			apierrors.CreateError(http.StatusForbidden, apierrors.MsgUnauthorized, lang),
		)
		return
	}

	ch, release := h.hub.Subscribe(userID)
	defer release()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.SSEvent("connected", gin.H{"user_id": userID})
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	zap.L().Info("sse subscriber connected", zap.String("user_id", userID))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("sse subscriber disconnected", zap.String("user_id", userID))
			return
		case n := <-ch:
			c.SSEvent("reminder", n)
			c.Writer.Flush()
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()
		}
	}
}
