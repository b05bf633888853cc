package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DefaultPushHost      = "https://exp.host"
	DefaultReminderLead  = 30 * time.Minute
	DefaultReminderWidth = 5 * time.Minute
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET"),
			CronSecret: os.Getenv("CRON_SECRET"),
		},
		Push: PushConfig{
			Host:        envOr("PUSH_HOST", DefaultPushHost),
			AccessToken: os.Getenv("EXPO_ACCESS_TOKEN"),
		},
		PubSub: PubSubConfig{
			ProjectID:   os.Getenv("GCP_PROJECT"),
			TopicPrefix: envOr("PUBSUB_TOPIC_PREFIX", "pickup-"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Reminder: ReminderConfig{
			Lead:        durationOr("REMINDER_LEAD", DefaultReminderLead),
			Width:       durationOr("REMINDER_WIDTH", DefaultReminderWidth),
			AlignWindow: boolOr("REMINDER_ALIGN_WINDOW", false),
			LockTTL:     durationOr("REMINDER_LOCK_TTL", DefaultReminderWidth),
		},
		Scheduler: SchedulerConfig{
			Enabled:       boolOr("SCHEDULER_ENABLED", false),
			CompleteAfter: durationOr("COMPLETE_AFTER", 3*time.Hour),
		},
	}
	return cfg
}

func envOr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn("Invalid duration in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return d
}

func boolOr(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn("Invalid boolean in environment, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return b
}
