package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	TrustedProxies []string

	DbHost     string
	DbPort     string
	DbUser     string
	DbPassword string
	DbName     string
	DbParams   string

	JWTSecret string

	OpenAIAPIKey  string
	OpenAIModel   string
	ModelTimeout  time.Duration
	RetryAttempts int
	RetryBase     time.Duration
	RetryMax      time.Duration

	// Sidecar endpoints for pub/sub publishing and one-shot job scheduling.
	SidecarBaseURL string
	SidecarTimeout time.Duration
	PubSubName     string
	TaskTopic      string
	ReminderTopic  string

	NotifyKeepalive  time.Duration
	NotifyQueueDepth int
}

func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		AppPort:        getEnv("APP_PORT", "8080"),
		TrustedProxies: parseTrustedProxies(os.Getenv("TRUSTED_PROXIES")),

		DbHost:     getEnv("MYSQL_HOST", "db"),
		DbPort:     getEnv("MYSQL_PORT", "3306"),
		DbUser:     getEnv("MYSQL_USER", "taskpilot"),
		DbPassword: getEnv("MYSQL_PASSWORD", "taskpilot"),
		DbName:     getEnv("MYSQL_DATABASE", "taskpilot"),
		DbParams:   getEnv("MYSQL_PARAMS", "parseTime=true&multiStatements=true"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		ModelTimeout:  getEnvDuration("MODEL_TIMEOUT", 30*time.Second),
		RetryAttempts: getEnvInt("MODEL_RETRY_ATTEMPTS", 3),
		RetryBase:     getEnvDuration("MODEL_RETRY_BASE", 500*time.Millisecond),
		RetryMax:      getEnvDuration("MODEL_RETRY_MAX", 5*time.Second),

		SidecarBaseURL: getEnv("SIDECAR_BASE_URL", "http://localhost:3500"),
		SidecarTimeout: getEnvDuration("SIDECAR_TIMEOUT", 5*time.Second),
		PubSubName:     getEnv("PUBSUB_NAME", "kafka-pubsub"),
		TaskTopic:      getEnv("TASK_TOPIC", "task-events"),
		ReminderTopic:  getEnv("REMINDER_TOPIC", "reminders"),

		NotifyKeepalive:  getEnvDuration("NOTIFY_KEEPALIVE", 30*time.Second),
		NotifyQueueDepth: getEnvInt("NOTIFY_QUEUE_DEPTH", 256),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func parseTrustedProxies(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	proxies := make([]string, 0, len(parts))
	for _, part := range parts {
		proxy := strings.TrimSpace(part)
		if proxy == "" {
			continue
		}
		proxies = append(proxies, proxy)
	}

	if len(proxies) == 0 {
		return nil
	}

	return proxies
}
