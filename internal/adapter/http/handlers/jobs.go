package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

// JobHandler receives fired reminder jobs from the sidecar and fans
// them out as reminder.due events on the reminders topic. The SSE layer
// picks them up from there like any other subscriber.
type JobHandler struct {
	tasks          ports.TaskService
	publisher      ports.EventPublisher
	remindersTopic string
}

func NewJobHandler(tasks ports.TaskService, publisher ports.EventPublisher, remindersTopic string) *JobHandler {
	return &JobHandler{
		tasks:          tasks,
		publisher:      publisher,
		remindersTopic: remindersTopic,
	}
}

// HandleReminderJob runs when a scheduled reminder fires. A task that
// was deleted or completed since scheduling is skipped silently; the
// sidecar still gets a 200 so the one-shot job is consumed.
func (h *JobHandler) HandleReminderJob(c *gin.Context) {
	var payload dto.JobPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		zap.L().Warn("malformed reminder job payload", zap.Error(err))
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}
	if payload.Type != "reminder" {
		zap.L().Warn("unexpected job type", zap.String("type", payload.Type))
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), payload.UserID, payload.TaskID)
	if err != nil {
		if !errors.Is(err, domain.ErrTaskNotFound) {
			zap.L().Error("failed to load task for fired reminder",
				zap.Uint64("task_id", payload.TaskID), zap.Error(err))
		}
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}
	if task.Completed {
		c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
		return
	}

	h.publisher.Publish(c.Request.Context(), h.remindersTopic, domain.EventReminderDue,
		task.ID, domain.SnapshotOf(task), task.UserID)

	c.JSON(http.StatusOK, dto.EventAck{Status: "SUCCESS"})
}
