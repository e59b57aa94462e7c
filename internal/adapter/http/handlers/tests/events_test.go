package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskpilot/internal/adapter/http/dto"
	"taskpilot/internal/adapter/http/handlers"
	"taskpilot/internal/app/notify"
	"taskpilot/internal/core/domain"
	"taskpilot/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEventRouter(spawner *recurrenceSpawnerMock, hub ports.NotificationHub) *gin.Engine {
	handler := handlers.NewEventHandler(spawner, hub, "kafka-pubsub", "task-events", "reminders")
	router := gin.New()
	router.GET("/dapr/subscribe", handler.Subscriptions)
	router.POST("/api/events/tasks", handler.HandleTaskEvent)
	router.POST("/api/events/reminders", handler.HandleReminderEvent)
	return router
}

func TestEventHandler_Subscriptions(t *testing.T) {
	router := newEventRouter(new(recurrenceSpawnerMock), notify.NewHub(4, zap.NewNop()))

	req := httptest.NewRequest(http.MethodGet, "/dapr/subscribe", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.SubscriptionEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, "kafka-pubsub", got[0].PubsubName)
	require.Equal(t, "task-events", got[0].Topic)
	require.Equal(t, "/api/events/tasks", got[0].Route)
	require.Equal(t, "reminders", got[1].Topic)
	require.Equal(t, "/api/events/reminders", got[1].Route)
}

func TestEventHandler_TaskCompleted_RecurringSpawnsNextOccurrence(t *testing.T) {
	dueDate := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)

	spawner := new(recurrenceSpawnerMock)
	spawner.On("SpawnNextOccurrence", mock.Anything, mock.MatchedBy(func(snapshot domain.TaskSnapshot) bool {
		return snapshot.ID == 7 && snapshot.Recurrence == domain.RecurrenceMonthly &&
			snapshot.DueDate != nil && snapshot.DueDate.Equal(dueDate)
	}), "user-1").Return(uint64(8), nil).Once()

	router := newEventRouter(spawner, notify.NewHub(4, zap.NewNop()))

	body := `{
		"id": "evt-1",
		"topic": "task-events",
		"data": {
			"event_type": "task.completed",
			"task_id": 7,
			"user_id": "user-1",
			"task_data": {
				"id": 7,
				"title": "Pay rent",
				"completed": true,
				"priority": "high",
				"recurrence": "monthly",
				"is_recurring": true,
				"due_date": "2026-01-31T09:00:00Z"
			}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "SUCCESS"}`, rec.Body.String())
	spawner.AssertExpectations(t)
}

func TestEventHandler_TaskCompleted_NonRecurringIgnored(t *testing.T) {
	spawner := new(recurrenceSpawnerMock)
	router := newEventRouter(spawner, notify.NewHub(4, zap.NewNop()))

	body := `{
		"data": {
			"event_type": "task.completed",
			"task_id": 7,
			"user_id": "user-1",
			"task_data": {"id": 7, "title": "One-off", "is_recurring": false}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/tasks", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "SUCCESS"}`, rec.Body.String())
	spawner.AssertExpectations(t)
}

func TestEventHandler_MalformedEventStillAcked(t *testing.T) {
	spawner := new(recurrenceSpawnerMock)
	router := newEventRouter(spawner, notify.NewHub(4, zap.NewNop()))

	req := httptest.NewRequest(http.MethodPost, "/api/events/tasks", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "SUCCESS"}`, rec.Body.String())
	spawner.AssertExpectations(t)
}

func TestEventHandler_ReminderDue_PushesNotification(t *testing.T) {
	hub := notify.NewHub(4, zap.NewNop())
	router := newEventRouter(new(recurrenceSpawnerMock), hub)

	ch, release := hub.Subscribe("user-1")
	defer release()

	body := `{
		"data": {
			"event_type": "reminder.due",
			"task_id": 7,
			"user_id": "user-1",
			"task_data": {"id": 7, "title": "Pay rent"}
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/events/reminders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status": "SUCCESS"}`, rec.Body.String())

	select {
	case n := <-ch:
		require.Equal(t, "reminder", n.Type)
		require.Equal(t, uint64(7), n.TaskID)
		require.Equal(t, "Pay rent", n.Title)
		require.Contains(t, n.Message, "Pay rent")
	case <-time.After(time.Second):
		t.Fatal("reminder was not pushed to the hub")
	}
}
