package http

import (
	"taskpilot/internal/adapter/http/handlers"
	"taskpilot/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health        *handlers.HealthHandler
	Tasks         *handlers.TaskHandler
	Conversations *handlers.ConversationHandler
	Chat          *handlers.ChatHandler
	Events        *handlers.EventHandler
	Jobs          *handlers.JobHandler
	Notifications *handlers.NotificationHandler
}

func RegisterRoutes(r *gin.Engine, h Handlers, jwtSecret string) {
	// Sidecar-facing routes: subscription discovery and fired jobs come
	// straight from localhost, outside the authenticated API surface.
	r.GET("/dapr/subscribe", h.Events.Subscriptions)
	r.POST("/job/:name", h.Jobs.HandleReminderJob)

	api := r.Group("/api")
	api.Use(middleware.LanguageMiddleware())
	{
		api.GET("/health", h.Health.CheckHealth)
		api.GET("/health/report", h.Health.CheckHealthReport)

		// Pub/sub deliveries also arrive from the sidecar, unauthenticated.
		api.POST("/events/tasks", h.Events.HandleTaskEvent)
		api.POST("/events/reminders", h.Events.HandleReminderEvent)

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtSecret))
		{
			authed.POST("/chat", h.Chat.Chat)

			authed.POST("/tasks", h.Tasks.CreateTask)
			authed.GET("/tasks", h.Tasks.ListTasks)
			authed.GET("/tasks/:id", h.Tasks.GetTask)
			authed.PATCH("/tasks/:id", h.Tasks.UpdateTask)
			authed.POST("/tasks/:id/complete", h.Tasks.CompleteTask)
			authed.DELETE("/tasks/:id", h.Tasks.DeleteTask)

			authed.GET("/conversations", h.Conversations.ListConversations)
			authed.GET("/conversations/:id", h.Conversations.GetConversation)
			authed.GET("/conversations/:id/messages", h.Conversations.GetConversationMessages)
			authed.DELETE("/conversations/:id", h.Conversations.DeleteConversation)

			authed.GET("/notifications/:user_id/sse", h.Notifications.Stream)
		}
	}
}
