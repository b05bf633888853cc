package roster

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/gatorpickup/pickup/internal/metrics"
	"github.com/gatorpickup/pickup/internal/pubsub"
)

// store handles all database operations for games and their participants.
type store struct {
	db *sql.DB
	mu sync.Mutex
}

// Service is the entry point for roster operations. It owns the clock, reports metrics
// and announces changes on the feed.
type Service struct {
	store   Store
	metrics metrics.Metrics
	feed    pubsub.PubSubClient
	now     func() time.Time
}

// txQuerier is satisfied by both *sql.DB and *sql.Tx.
type txQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
