package reminder

import (
	"database/sql"
	"sync"
	"time"

	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/notifier"
	"github.com/gatorpickup/pickup/internal/push"
)

// LockName is the job_locks row that keeps two dispatch runs from overlapping.
const LockName = "reminder-dispatch"

// Window is the half-open interval [Start, End) of start times a run reminds about.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Config controls the reminder window. Width must equal the interval the dispatcher is
// invoked at, otherwise games fall between runs or are reminded twice.
type Config struct {
	Lead        time.Duration
	Width       time.Duration
	AlignWindow bool
	LockTTL     time.Duration
}

// Target is one joined participant with a push token, in a game that is due a reminder.
type Target struct {
	GameID       string
	Sport        game.Sport
	LocationName *string
	StartsAt     time.Time
	UserID       string
	Token        string
}

// Result is the outcome of one dispatch run.
type Result struct {
	Sent   int    `json:"sent"`
	Window Window `json:"window"`
	DryRun bool   `json:"dry_run,omitempty"`
}

type store struct {
	db *sql.DB
	mu sync.Mutex
}

// Dispatcher finds games about to start and pushes a reminder to their joined players.
type Dispatcher struct {
	store    Store
	sender   push.Sender
	notifier notifier.Notifier
	metrics  metrics.Metrics
	cfg      Config
	now      func() time.Time
}
