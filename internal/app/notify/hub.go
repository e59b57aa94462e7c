// Package notify holds the process-local live-push channel for reminder
// notifications. Queues are ephemeral: nothing pushed before a subscriber
// connects is replayed, and delivery is best-effort.
package notify

import (
	"sync"

	"go.uber.org/zap"

	"taskpilot/internal/core/ports"
)

const defaultQueueDepth = 256

type userQueue struct {
	ch          chan ports.Notification
	subscribers int
}

// Hub is the per-user notification fan-in. The queue map is the only
// shared mutable state in the process; all access goes through the mutex.
type Hub struct {
	mu     sync.Mutex
	queues map[string]*userQueue
	depth  int
	logger *zap.Logger
}

func NewHub(queueDepth int, logger *zap.Logger) *Hub {
	if queueDepth < 1 {
		queueDepth = defaultQueueDepth
	}
	return &Hub{
		queues: make(map[string]*userQueue),
		depth:  queueDepth,
		logger: logger,
	}
}

var _ ports.NotificationHub = (*Hub)(nil)

// Push enqueues a notification for the user without blocking. When the
// queue is full the payload is dropped and logged; reminders are
// best-effort and a stuck consumer must not stall the event handler.
func (h *Hub) Push(userID string, n ports.Notification) {
	h.mu.Lock()
	q := h.queue(userID)
	h.mu.Unlock()

	select {
	case q.ch <- n:
		h.logger.Info("notification queued", zap.String("user_id", userID), zap.Uint64("task_id", n.TaskID))
	default:
		h.logger.Warn("notification queue full, payload dropped", zap.String("user_id", userID))
	}
}

// Subscribe attaches to the user's queue, creating it on first use.
// Multiple subscribers for one user share the channel and compete for
// payloads: each payload reaches exactly one of them. The returned
// release func must be called on disconnect; it removes the queue once
// the last subscriber is gone and nothing is left buffered, so a fast
// reconnect still finds its pending payloads.
func (h *Hub) Subscribe(userID string) (<-chan ports.Notification, func()) {
	h.mu.Lock()
	q := h.queue(userID)
	q.subscribers++
	h.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			q.subscribers--
			if q.subscribers <= 0 && len(q.ch) == 0 {
				delete(h.queues, userID)
			}
		})
	}
	return q.ch, release
}

// queue returns the user's queue, creating it lazily. Caller holds h.mu.
func (h *Hub) queue(userID string) *userQueue {
	q, ok := h.queues[userID]
	if !ok {
		q = &userQueue{ch: make(chan ports.Notification, h.depth)}
		h.queues[userID] = q
	}
	return q
}
