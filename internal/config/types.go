package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Turso     TursoConfig
	Auth      AuthConfig
	Push      PushConfig
	PubSub    PubSubConfig
	Slack     SlackConfig
	Reminder  ReminderConfig
	Scheduler SchedulerConfig
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
type AuthConfig struct {
	JWTSecret  string
	CronSecret string
}
type PushConfig struct {
	Host        string
	AccessToken string
}
type PubSubConfig struct {
	ProjectID   string
	TopicPrefix string
}
type SlackConfig struct {
	Token     string
	ChannelID string
}

// ReminderConfig controls the dispatch window. Width must match the interval the
// dispatcher is invoked at, otherwise games fall between windows or get reminded twice.
type ReminderConfig struct {
	Lead        time.Duration
	Width       time.Duration
	AlignWindow bool
	LockTTL     time.Duration
}
type SchedulerConfig struct {
	Enabled       bool
	CompleteAfter time.Duration
}
