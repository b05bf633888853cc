package reminder

import (
	"context"
	"sync"
	"time"
)

// MockStore is a mock implementation of Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	TargetsFunc     func(window Window) ([]Target, error)
	AcquireLockFunc func(name, holder string) (bool, error)

	TargetsCalls []Window
	LockTTLs     []time.Duration
	ReleaseCalls []string
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Targets(ctx context.Context, window Window) ([]Target, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TargetsCalls = append(m.TargetsCalls, window)
	if m.TargetsFunc != nil {
		return m.TargetsFunc(window)
	}
	return nil, nil
}

func (m *MockStore) AcquireLock(ctx context.Context, name, holder string, now time.Time, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockTTLs = append(m.LockTTLs, ttl)
	if m.AcquireLockFunc != nil {
		return m.AcquireLockFunc(name, holder)
	}
	return true, nil
}

func (m *MockStore) ReleaseLock(ctx context.Context, name, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReleaseCalls = append(m.ReleaseCalls, holder)
	return nil
}
