package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

// RecurrenceSpawner materializes the next occurrence of a completed
// recurring task.
type RecurrenceSpawner interface {
	SpawnNextOccurrence(ctx context.Context, snapshot domain.TaskSnapshot, userID string) (uint64, error)
}

// EventHandler consumes the pub/sub topics this service subscribes to.
// Handlers always ack SUCCESS: the transport redelivers on any other
// status and a malformed or unprocessable event stays malformed forever.
type EventHandler struct {
	spawner        RecurrenceSpawner
	hub            ports.NotificationHub
	pubsubName     string
	taskTopic      string
	remindersTopic string
}

func NewEventHandler(spawner RecurrenceSpawner, hub ports.NotificationHub, pubsubName, taskTopic, remindersTopic string) *EventHandler {
	return &EventHandler{
		spawner:        spawner,
		hub:            hub,
		pubsubName:     pubsubName,
		taskTopic:      taskTopic,
		remindersTopic: remindersTopic,
	}
}

// Subscriptions answers the sidecar's programmatic subscription query.
func (h *EventHandler) Subscriptions(c *gin.Context) {
	c.JSON(http.StatusOK, []dto.SubscriptionEntry{
		{PubsubName: h.pubsubName, Topic: h.taskTopic, Route: "/api/events/tasks"},
		{PubsubName: h.pubsubName, Topic: h.remindersTopic, Route: "/api/events/reminders"},
	})
}

// HandleTaskEvent reacts to task lifecycle events. Completing a
// recurring task spawns its next occurrence; every other event type is
// acknowledged and ignored.
func (h *EventHandler) HandleTaskEvent(c *gin.Context) {
	var event dto.CloudEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		zap.L().Warn("malformed task event, acknowledging anyway", zap.Error(err))
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}

	data := event.Data
	if data.EventType == domain.EventTaskCompleted && data.TaskData.IsRecurring {
		if _, err := h.spawner.SpawnNextOccurrence(c.Request.Context(), data.TaskData, data.UserID); err != nil {
			zap.L().Error("failed to spawn next occurrence",
				zap.Uint64("task_id", data.TaskID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
}

// HandleReminderEvent pushes due reminders onto the user's live
// notification channel.
func (h *EventHandler) HandleReminderEvent(c *gin.Context) {
	var event dto.CloudEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		zap.L().Warn("malformed reminder event, acknowledging anyway", zap.Error(err))
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}

	data := event.Data
	if data.EventType == domain.EventReminderDue && data.UserID != "" {
		h.hub.Push(data.UserID, ports.Notification{
			Type:    "reminder",
			TaskID:  data.TaskID,
			Title:   data.TaskData.Title,
			Message: reminderMessage(data.TaskData.Title),
		})
	}

	c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
}

func reminderMessage(title string) string {
	if title == "" {
		return "A task is due soon."
	}
	return fmt.Sprintf("Reminder: %q is due soon.", title)
}
