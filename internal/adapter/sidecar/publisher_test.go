package sidecar

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskpilot/internal/core/domain"
)

func TestPublisher_Publish_Success(t *testing.T) {
	var gotPath string
	var gotBody []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, "kafka-pubsub", time.Second, zap.NewNop())
	task := domain.Task{ID: 7, UserID: "user-1", Title: "Pay rent", Priority: domain.PriorityHigh}

	ok := publisher.Publish(context.Background(), "task-events", domain.EventTaskCreated,
		7, domain.SnapshotOf(task), "user-1")

	require.True(t, ok)
	require.Equal(t, "/v1.0/publish/kafka-pubsub/task-events", gotPath)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &envelope))
	require.Equal(t, "task.created", envelope["event_type"])
	require.Equal(t, float64(7), envelope["task_id"])
	require.Equal(t, "user-1", envelope["user_id"])
	require.NotEmpty(t, envelope["timestamp"])

	taskData := envelope["task_data"].(map[string]any)
	require.Equal(t, "Pay rent", taskData["title"])
	require.Equal(t, "high", taskData["priority"])
}

func TestPublisher_Publish_SidecarRejectionReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewPublisher(server.URL, "kafka-pubsub", time.Second, zap.NewNop())

	ok := publisher.Publish(context.Background(), "task-events", domain.EventTaskDeleted,
		1, domain.TaskSnapshot{ID: 1}, "user-1")

	require.False(t, ok)
}

func TestPublisher_Publish_SidecarUnreachableReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	publisher := NewPublisher(server.URL, "kafka-pubsub", time.Second, zap.NewNop())

	ok := publisher.Publish(context.Background(), "task-events", domain.EventTaskCreated,
		1, domain.TaskSnapshot{ID: 1}, "user-1")

	require.False(t, ok)
}
