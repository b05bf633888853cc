package profile

import (
	"context"
	"sync"

	"github.com/gatorpickup/pickup/internal/game"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetFunc              func(id string) (*game.Profile, error)
	EnsureFunc           func(id string) error
	UpdateOnboardingFunc func(id string, o Onboarding) (*game.Profile, error)
	SetPushTokenFunc     func(id string, token *string) error
	StatsFunc            func(id string) (Stats, error)

	// Call records
	EnsureCalls       []string
	SetPushTokenCalls []struct {
		ID    string
		Token *string
	}
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(ctx context.Context, id string) (*game.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(id)
	}
	return &game.Profile{ID: id}, nil
}

func (m *MockStore) Ensure(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnsureCalls = append(m.EnsureCalls, id)
	if m.EnsureFunc != nil {
		return m.EnsureFunc(id)
	}
	return nil
}

func (m *MockStore) UpdateOnboarding(ctx context.Context, id string, o Onboarding) (*game.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateOnboardingFunc != nil {
		return m.UpdateOnboardingFunc(id, o)
	}
	name := o.DisplayName
	return &game.Profile{ID: id, DisplayName: &name, Onboarded: true}, nil
}

func (m *MockStore) SetPushToken(ctx context.Context, id string, token *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetPushTokenCalls = append(m.SetPushTokenCalls, struct {
		ID    string
		Token *string
	}{id, token})
	if m.SetPushTokenFunc != nil {
		return m.SetPushTokenFunc(id, token)
	}
	return nil
}

func (m *MockStore) Stats(ctx context.Context, id string) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsFunc != nil {
		return m.StatsFunc(id)
	}
	return Stats{UserID: id}, nil
}
