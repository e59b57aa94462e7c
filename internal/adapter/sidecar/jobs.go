package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/core/ports"
)

// JobsClient schedules one-shot reminder jobs through the sidecar jobs
// API. One job per task, named after the task id, so rescheduling is a
// cancel followed by a fresh schedule.
type JobsClient struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	now     func() time.Time
}

var _ ports.ReminderScheduler = (*JobsClient)(nil)

func NewJobsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *JobsClient {
	return &JobsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		now:     time.Now,
	}
}

type jobRequest struct {
	Schedule string         `json:"schedule"`
	Data     map[string]any `json:"data"`
}

func jobName(taskID uint64) string {
	return fmt.Sprintf("reminder-task-%d", taskID)
}

func (j *JobsClient) Schedule(ctx context.Context, taskID uint64, userID string, dueDate time.Time, offsetMinutes int) bool {
	fireAt := dueDate.Add(-time.Duration(offsetMinutes) * time.Minute)
	if !fireAt.After(j.now()) {
		j.logger.Debug("reminder fire time already passed, not scheduling",
			zap.Uint64("taskId", taskID),
			zap.Time("fireAt", fireAt))
		return false
	}

	body, err := json.Marshal(jobRequest{
		Schedule: "@at " + fireAt.UTC().Format(time.RFC3339),
		Data: map[string]any{
			"type":     "reminder",
			"task_id":  taskID,
			"user_id":  userID,
			"due_date": dueDate.UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		j.logger.Error("marshal job request", zap.Uint64("taskId", taskID), zap.Error(err))
		return false
	}

	url := fmt.Sprintf("%s/v1.0-alpha1/jobs/%s", j.baseURL, jobName(taskID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		j.logger.Error("build job request", zap.Uint64("taskId", taskID), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := j.http.Do(req)
	if err != nil {
		j.logger.Warn("sidecar unreachable, reminder not scheduled",
			zap.Uint64("taskId", taskID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		j.logger.Warn("sidecar refused reminder job",
			zap.Uint64("taskId", taskID), zap.Int("status", resp.StatusCode))
		return false
	}
	j.logger.Info("reminder scheduled",
		zap.Uint64("taskId", taskID), zap.Time("fireAt", fireAt))
	return true
}

// Cancel removes a pending reminder job. A missing job counts as
// success since the outcome is the same.
func (j *JobsClient) Cancel(ctx context.Context, taskID uint64) bool {
	url := fmt.Sprintf("%s/v1.0-alpha1/jobs/%s", j.baseURL, jobName(taskID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		j.logger.Error("build job delete request", zap.Uint64("taskId", taskID), zap.Error(err))
		return false
	}

	resp, err := j.http.Do(req)
	if err != nil {
		j.logger.Warn("sidecar unreachable, reminder not cancelled",
			zap.Uint64("taskId", taskID), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return true
	default:
		j.logger.Warn("sidecar refused reminder cancel",
			zap.Uint64("taskId", taskID), zap.Int("status", resp.StatusCode))
		return false
	}
}
