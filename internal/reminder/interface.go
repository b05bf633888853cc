package reminder

import (
	"context"
	"time"
)

// Store reads reminder targets and holds the run lock.
type Store interface {
	// Targets returns the joined participants with a push token of every open or full
	// game starting inside the window.
	Targets(ctx context.Context, window Window) ([]Target, error)
	// AcquireLock takes the named lock for holder until now+ttl. It returns false if
	// another holder has an unexpired lock.
	AcquireLock(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, name, holder string) error
}
