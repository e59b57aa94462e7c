// Package sidecar talks to the local Dapr sidecar over plain HTTP for
// pub/sub and job scheduling. Both clients are best effort: a sidecar
// outage must never fail the task mutation that triggered the call, so
// every method reports success as a bool and logs failures instead of
// returning errors.
package sidecar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"
)

type Publisher struct {
	baseURL string
	pubsub  string
	http    *http.Client
	logger  *zap.Logger
}

var _ ports.EventPublisher = (*Publisher)(nil)

func NewPublisher(baseURL, pubsub string, timeout time.Duration, logger *zap.Logger) *Publisher {
	return &Publisher{
		baseURL: baseURL,
		pubsub:  pubsub,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type eventEnvelope struct {
	EventType string              `json:"event_type"`
	TaskID    uint64              `json:"task_id"`
	TaskData  domain.TaskSnapshot `json:"task_data"`
	UserID    string              `json:"user_id"`
	Timestamp string              `json:"timestamp"`
}

func (p *Publisher) Publish(ctx context.Context, topic, eventType string, taskID uint64, snapshot domain.TaskSnapshot, userID string) bool {
	body, err := json.Marshal(eventEnvelope{
		EventType: eventType,
		TaskID:    taskID,
		TaskData:  snapshot,
		UserID:    userID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Error("marshal event envelope", zap.String("eventType", eventType), zap.Error(err))
		return false
	}

	url := fmt.Sprintf("%s/v1.0/publish/%s/%s", p.baseURL, p.pubsub, topic)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		p.logger.Error("build publish request", zap.String("topic", topic), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		p.logger.Warn("sidecar unreachable, event dropped",
			zap.String("topic", topic),
			zap.String("eventType", eventType),
			zap.Uint64("taskId", taskID),
			zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		p.logger.Warn("sidecar refused event",
			zap.String("topic", topic),
			zap.String("eventType", eventType),
			zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}
