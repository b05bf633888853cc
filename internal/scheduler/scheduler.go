package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/reminder"
	"github.com/robfig/cron/v3"
)

// ReminderDispatcher is satisfied by *reminder.Dispatcher.
type ReminderDispatcher interface {
	Dispatch(ctx context.Context, dryRun bool) (reminder.Result, error)
}

// GameCompleter is satisfied by *roster.Service.
type GameCompleter interface {
	CompletePastGames(ctx context.Context, grace time.Duration) ([]string, error)
}

// Config controls the in-process jobs.
type Config struct {
	// ReminderEvery must equal the reminder window width.
	ReminderEvery time.Duration
	// CompleteAfter is how long after its start a game is marked completed.
	CompleteAfter time.Duration
	// CompleteSpec is the cron spec of the completion sweep.
	CompleteSpec string
	JobTimeout   time.Duration
}

// Scheduler runs the reminder dispatcher and the completion sweep on a cron.
// A tick is skipped while the previous run of the same job is still going.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher ReminderDispatcher
	completer  GameCompleter
	cfg        Config
}

// New creates a Scheduler and registers its jobs. Call Start to begin running them.
func New(dispatcher ReminderDispatcher, completer GameCompleter, cfg Config) (*Scheduler, error) {
	if cfg.JobTimeout == 0 {
		cfg.JobTimeout = time.Minute
	}
	if cfg.CompleteSpec == "" {
		cfg.CompleteSpec = "*/15 * * * *"
	}
	logger := cronLogger{}
	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		dispatcher: dispatcher,
		completer:  completer,
		cfg:        cfg,
	}

	spec, err := EverySpec(cfg.ReminderEvery)
	if err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(spec, s.runReminders); err != nil {
		return nil, fmt.Errorf("failed to schedule reminders %q: %w", spec, err)
	}
	if _, err := s.cron.AddFunc(cfg.CompleteSpec, s.runCompletion); err != nil {
		return nil, fmt.Errorf("failed to schedule completion sweep %q: %w", cfg.CompleteSpec, err)
	}
	log.Info("Scheduler configured", "reminders", spec, "completion", cfg.CompleteSpec)
	return s, nil
}

// EverySpec returns a cron spec firing every d. Whole-minute periods that divide an hour
// fire on wall-clock boundaries (e.g. :00, :05, :10), anything else falls back to @every.
func EverySpec(d time.Duration) (string, error) {
	if d <= 0 {
		return "", fmt.Errorf("invalid schedule period %s", d)
	}
	if d%time.Minute == 0 {
		mins := int(d / time.Minute)
		if mins == 1 {
			return "* * * * *", nil
		}
		if 60%mins == 0 {
			return fmt.Sprintf("*/%d * * * *", mins), nil
		}
	}
	return "@every " + d.String(), nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Scheduler started")
}

// Stop stops scheduling and waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		log.Info("Scheduler stopped")
	case <-ctx.Done():
		log.Warn("Scheduler stop timed out with jobs still running")
	}
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	res, err := s.dispatcher.Dispatch(ctx, false)
	switch {
	case errors.Is(err, game.ErrAlreadyRunning):
		log.Info("Scheduled reminder run skipped, already running elsewhere")
	case err != nil:
		log.Error("Scheduled reminder run failed", "error", err)
	default:
		log.Debug("Scheduled reminder run finished", "sent", res.Sent)
	}
}

func (s *Scheduler) runCompletion() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.JobTimeout)
	defer cancel()

	ids, err := s.completer.CompletePastGames(ctx, s.cfg.CompleteAfter)
	if err != nil {
		log.Error("Scheduled completion sweep failed", "error", err)
		return
	}
	log.Debug("Scheduled completion sweep finished", "completed", len(ids))
}

// cronLogger routes cron's own logging through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
