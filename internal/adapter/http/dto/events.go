package dto

import "taskpilot/internal/core/domain"

// SubscriptionEntry is one pub/sub subscription advertised to the
// sidecar on /dapr/subscribe.
type SubscriptionEntry struct {
	PubsubName string `json:"pubsubname"`
	Topic      string `json:"topic"`
	Route      string `json:"route"`
}

// CloudEvent is the envelope the sidecar wraps around published
// payloads when delivering them to a subscriber route.
type CloudEvent struct {
	ID     string        `json:"id"`
	Source string        `json:"source"`
	Type   string        `json:"type"`
	Topic  string        `json:"topic"`
	Data   TaskEventData `json:"data"`
}

// TaskEventData is the payload this service publishes for every task
// lifecycle and reminder event.
type TaskEventData struct {
	EventType string              `json:"event_type"`
	TaskID    uint64              `json:"task_id"`
	TaskData  domain.TaskSnapshot `json:"task_data"`
	UserID    string              `json:"user_id"`
	Timestamp string              `json:"timestamp"`
}

// EventAck is the acknowledgement returned to the sidecar. Consumers
// always report SUCCESS so poison messages are not redelivered forever.
type EventAck struct {
	Status string `json:"status"`
}

// JobPayload is the data body delivered when a scheduled job fires.
// Type discriminates job kinds; DueDate echoes the task's due date as
// scheduled, for consumers that want it without a task lookup.
type JobPayload struct {
	Type    string `json:"type"`
	TaskID  uint64 `json:"task_id"`
	UserID  string `json:"user_id"`
	DueDate string `json:"due_date"`
}
