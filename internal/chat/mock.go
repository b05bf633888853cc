package chat

import (
	"context"
	"sync"

	"github.com/gatorpickup/pickup/internal/game"
)

// Mock is a mock implementation of Chat for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	PostFunc func(gameID, userID, content string) (*game.Message, error)
	ListFunc func(gameID string) ([]game.Message, error)

	PostCalls []game.Message
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Post(ctx context.Context, gameID, userID, content string) (*game.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostCalls = append(m.PostCalls, game.Message{GameID: gameID, UserID: userID, Content: content})
	if m.PostFunc != nil {
		return m.PostFunc(gameID, userID, content)
	}
	return &game.Message{ID: "m1", GameID: gameID, UserID: userID, Content: content}, nil
}

func (m *Mock) List(ctx context.Context, gameID string) ([]game.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFunc != nil {
		return m.ListFunc(gameID)
	}
	return []game.Message{}, nil
}
