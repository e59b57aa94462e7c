package main

import (
	"taskpilot/pkg/backoff"
	"taskpilot/pkg/translator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	dbadapter "taskpilot/internal/adapter/db"
	httpadapter "taskpilot/internal/adapter/http"
	"taskpilot/internal/adapter/http/handlers"
	httpmiddleware "taskpilot/internal/adapter/http/middleware"
	"taskpilot/internal/adapter/llm"
	"taskpilot/internal/adapter/sidecar"
	"taskpilot/internal/app/notify"
	"taskpilot/internal/app/service"
	"taskpilot/internal/config"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	// Make zap available to packages that log through zap.L().
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	translator.InitTranslator(translator.Config{
		TranslationFolder:  "pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})

	cfg := config.LoadConfig()
	db, err := dbadapter.ConnectDB(cfg)
	if err != nil {
		logger.Fatal("failed to connect to mysql", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("failed to close mysql connection", zap.Error(err))
		}
	}()

	taskRepo := dbadapter.NewTaskRepository(db)
	conversationRepo := dbadapter.NewConversationRepository(db)

	publisher := sidecar.NewPublisher(cfg.SidecarBaseURL, cfg.PubSubName, cfg.SidecarTimeout, logger)
	jobs := sidecar.NewJobsClient(cfg.SidecarBaseURL, cfg.SidecarTimeout, logger)
	chatClient := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ModelTimeout)
	hub := notify.NewHub(cfg.NotifyQueueDepth, logger)

	taskService := service.NewTaskService(taskRepo, publisher, jobs, cfg.TaskTopic, logger)
	conversationService := service.NewConversationService(conversationRepo)
	recurrenceService := service.NewRecurrenceService(taskRepo, logger)
	chatService := service.NewChatService(
		conversationService,
		taskService,
		chatClient,
		backoff.Policy{Base: cfg.RetryBase, Max: cfg.RetryMax},
		cfg.RetryAttempts,
		logger,
	)

	r := gin.New()
	r.Use(gin.Recovery(), httpmiddleware.GinZapMiddleware(logger))
	if len(cfg.TrustedProxies) > 0 {
		if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			logger.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	httpadapter.RegisterRoutes(r, httpadapter.Handlers{
		Health:        handlers.NewHealthHandler(db, cfg.SidecarBaseURL),
		Tasks:         handlers.NewTaskHandler(taskService),
		Conversations: handlers.NewConversationHandler(conversationService),
		Chat:          handlers.NewChatHandler(chatService),
		Events:        handlers.NewEventHandler(recurrenceService, hub, cfg.PubSubName, cfg.TaskTopic, cfg.ReminderTopic),
		Jobs:          handlers.NewJobHandler(taskService, publisher, cfg.ReminderTopic),
		Notifications: handlers.NewNotificationHandler(hub, cfg.NotifyKeepalive),
	}, cfg.JWTSecret)

	addr := ":" + cfg.AppPort
	logger.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("could not start server", zap.Error(err))
	}
}
