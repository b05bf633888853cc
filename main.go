package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/auth"
	"github.com/gatorpickup/pickup/internal/chat"
	"github.com/gatorpickup/pickup/internal/config"
	"github.com/gatorpickup/pickup/internal/database"
	server "github.com/gatorpickup/pickup/internal/http"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/notifier"
	"github.com/gatorpickup/pickup/internal/notifier/slack"
	"github.com/gatorpickup/pickup/internal/profile"
	"github.com/gatorpickup/pickup/internal/pubsub"
	"github.com/gatorpickup/pickup/internal/push"
	"github.com/gatorpickup/pickup/internal/reminder"
	"github.com/gatorpickup/pickup/internal/roster"
	"github.com/gatorpickup/pickup/internal/scheduler"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken)
	dbInitDuration := time.Since(startTime)
	log.Info("Database initialization time recorded", "duration_ms", dbInitDuration.Milliseconds())
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var feed pubsub.PubSubClient
	if cfg.PubSub.ProjectID != "" {
		feed, err = pubsub.New(context.Background(), cfg.PubSub.ProjectID, cfg.PubSub.TopicPrefix)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Warn("GCP_PROJECT not set, change feed is log only")
		feed = pubsub.NewLogOnly()
	}
	defer feed.Close()

	var opsNotifier notifier.Notifier
	if cfg.Slack.Token != "" && cfg.Slack.ChannelID != "" {
		opsNotifier = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Warn("Slack not configured, ops alerts are log only")
		opsNotifier = notifier.NewLogNotifier()
	}

	rosterSvc := roster.NewService(roster.New(db), metricsSvc, feed)
	profiles := profile.New(db)
	gameChat := chat.New(db, feed)
	dispatcher := reminder.NewDispatcher(
		reminder.NewStore(db),
		push.NewClient(cfg.Push.Host, cfg.Push.AccessToken),
		opsNotifier,
		metricsSvc,
		reminder.Config{
			Lead:        cfg.Reminder.Lead,
			Width:       cfg.Reminder.Width,
			AlignWindow: cfg.Reminder.AlignWindow,
			LockTTL:     cfg.Reminder.LockTTL,
		},
	)

	s := server.NewServer(
		rosterSvc,
		profiles,
		gameChat,
		dispatcher,
		auth.NewVerifier(cfg.Auth.JWTSecret),
		metricsHandler,
		cfg,
	)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = scheduler.New(dispatcher, rosterSvc, scheduler.Config{
			ReminderEvery: cfg.Reminder.Width,
			CompleteAfter: cfg.Scheduler.CompleteAfter,
		})
		if err != nil {
			log.Fatalf("Failed to configure scheduler: %s", err)
		}
		sched.Start()
	} else {
		log.Info("In-process scheduler disabled, expecting an external cron to call /reminders/dispatch")
	}

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	// Start the server in a goroutine
	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if sched != nil {
			sched.Stop(ctx)
		}
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	log.Info("Server process shutting down")
}
