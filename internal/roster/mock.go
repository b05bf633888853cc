package roster

import (
	"context"
	"sync"
	"time"

	"github.com/gatorpickup/pickup/internal/game"
)

// MockStore is a mock implementation of the Store interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreateGameFunc        func(g *game.Game) error
	GetGameFunc           func(gameID string) (*game.Game, error)
	ListUpcomingFunc      func(now time.Time, filter game.Filter) ([]game.Game, error)
	RosterFunc            func(gameID string) ([]game.Participant, error)
	JoinFunc              func(gameID, userID string, now time.Time) (game.RosterResult, error)
	LeaveFunc             func(gameID, userID string, now time.Time) (game.RosterResult, error)
	CompletePastGamesFunc func(before time.Time) ([]string, error)
	ListLocationsFunc     func() ([]game.Location, error)
	LocationExistsFunc    func(locationID string) (bool, error)

	// Call records
	CreateGameCalls []*game.Game
	JoinCalls       []RosterCall
	LeaveCalls      []RosterCall
	CompleteCalls   []time.Time
}

// RosterCall records the arguments of a Join or Leave.
type RosterCall struct {
	GameID string
	UserID string
	Now    time.Time
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = nil
	m.JoinCalls = nil
	m.LeaveCalls = nil
	m.CompleteCalls = nil
}

func (m *MockStore) CreateGame(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateGameCalls = append(m.CreateGameCalls, g)
	if m.CreateGameFunc != nil {
		return m.CreateGameFunc(g)
	}
	return nil
}

func (m *MockStore) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetGameFunc != nil {
		return m.GetGameFunc(gameID)
	}
	return nil, game.ErrNotFound
}

func (m *MockStore) ListUpcoming(ctx context.Context, now time.Time, filter game.Filter) ([]game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListUpcomingFunc != nil {
		return m.ListUpcomingFunc(now, filter)
	}
	return []game.Game{}, nil
}

func (m *MockStore) Roster(ctx context.Context, gameID string) ([]game.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RosterFunc != nil {
		return m.RosterFunc(gameID)
	}
	return []game.Participant{}, nil
}

func (m *MockStore) Join(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JoinCalls = append(m.JoinCalls, RosterCall{GameID: gameID, UserID: userID, Now: now})
	if m.JoinFunc != nil {
		return m.JoinFunc(gameID, userID, now)
	}
	return game.RosterResult{GameID: gameID}, nil
}

func (m *MockStore) Leave(ctx context.Context, gameID, userID string, now time.Time) (game.RosterResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LeaveCalls = append(m.LeaveCalls, RosterCall{GameID: gameID, UserID: userID, Now: now})
	if m.LeaveFunc != nil {
		return m.LeaveFunc(gameID, userID, now)
	}
	return game.RosterResult{GameID: gameID}, nil
}

func (m *MockStore) CompletePastGames(ctx context.Context, before time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompleteCalls = append(m.CompleteCalls, before)
	if m.CompletePastGamesFunc != nil {
		return m.CompletePastGamesFunc(before)
	}
	return nil, nil
}

func (m *MockStore) ListLocations(ctx context.Context) ([]game.Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListLocationsFunc != nil {
		return m.ListLocationsFunc()
	}
	return []game.Location{}, nil
}

func (m *MockStore) LocationExists(ctx context.Context, locationID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LocationExistsFunc != nil {
		return m.LocationExistsFunc(locationID)
	}
	return true, nil
}
