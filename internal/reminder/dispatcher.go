package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/notifier"
	"github.com/gatorpickup/pickup/internal/push"
	"github.com/google/uuid"
)

// NewDispatcher creates a Dispatcher.
func NewDispatcher(store Store, sender push.Sender, n notifier.Notifier, m metrics.Metrics, cfg Config) *Dispatcher {
	return &Dispatcher{
		store:    store,
		sender:   sender,
		notifier: n,
		metrics:  m,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the dispatcher clock.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Dispatch sends one reminder per joined participant with a push token for every game
// starting inside the current window. Nothing is recorded about who was reminded; a
// failed run is not retried.
//
// A dry run builds and counts the messages without sending them or taking the lock.
func (d *Dispatcher) Dispatch(ctx context.Context, dryRun bool) (Result, error) {
	now := d.now()
	window := ComputeWindow(now, d.cfg.Lead, d.cfg.Width, d.cfg.AlignWindow)
	result := Result{Window: window, DryRun: dryRun}

	if !dryRun {
		ttl := d.lockTTL()
		holder := uuid.NewString()
		acquired, err := d.store.AcquireLock(ctx, LockName, holder, now, ttl)
		if err != nil {
			return result, d.fail(ctx, window, err)
		}
		if !acquired {
			log.Warn("Reminder dispatch skipped, another run holds the lock", "windowStart", window.Start)
			return result, game.ErrAlreadyRunning
		}
		defer func() {
			// Released on a fresh context so a cancelled request does not leave the lock behind.
			if err := d.store.ReleaseLock(context.WithoutCancel(ctx), LockName, holder); err != nil {
				log.Error("Failed to release reminder lock", "error", err, "holder", holder)
			}
		}()

		// The run may not outlive its lock.
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ttl)
		defer cancel()
	}

	d.metrics.IncReminderRuns()
	start := time.Now()
	defer func() {
		d.metrics.ObserveDispatchDuration(time.Since(start).Seconds())
	}()

	targets, err := d.store.Targets(ctx, window)
	if err != nil {
		return result, d.fail(ctx, window, err)
	}
	messages := BuildMessages(targets, d.cfg.Lead)
	result.Sent = len(messages)

	if len(messages) == 0 {
		log.Info("No reminders due", "windowStart", window.Start, "windowEnd", window.End)
		return result, nil
	}
	if dryRun {
		log.Info("[Dry Run] Would send reminders", "count", len(messages), "windowStart", window.Start, "windowEnd", window.End)
		return result, nil
	}

	if err := d.sender.Send(ctx, messages); err != nil {
		result.Sent = 0
		return result, d.fail(ctx, window, err)
	}
	d.metrics.AddRemindersSent(len(messages))
	log.Info("Sent reminders", "count", len(messages), "windowStart", window.Start, "windowEnd", window.End)
	return result, nil
}

// lockTTL is never shorter than the window width, so a lock taken on one tick is held
// until the next tick at the earliest.
func (d *Dispatcher) lockTTL() time.Duration {
	return max(d.cfg.LockTTL, d.cfg.Width)
}

// fail records a failed run and raises an ops alert. The returned error wraps ErrDispatchFailed.
func (d *Dispatcher) fail(ctx context.Context, window Window, cause error) error {
	d.metrics.IncDispatchFailures()
	log.Error("Reminder dispatch failed", "error", cause, "windowStart", window.Start, "windowEnd", window.End)

	alert := notifier.Alert{
		Title:  "Reminder dispatch failed",
		Detail: cause.Error(),
		Fields: []notifier.Field{
			{Label: "Window", Value: window.Start.Format(time.RFC3339) + " to " + window.End.Format(time.RFC3339)},
		},
	}
	if err := d.notifier.SendOpsAlert(context.WithoutCancel(ctx), alert, false); err != nil {
		log.Error("Failed to send ops alert", "error", err)
	}

	if errors.Is(cause, game.ErrDispatchFailed) {
		return cause
	}
	return fmt.Errorf("%w: %w", game.ErrDispatchFailed, cause)
}
