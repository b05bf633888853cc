package push

import (
	"context"
	"sync"
	"time"
)

// Mock is a mock implementation of Sender for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendFunc func(messages []Message) error

	SendCalls [][]Message
	// Deadlines holds the context deadline of each Send, zero when there was none.
	Deadlines []time.Time
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(ctx context.Context, messages []Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls = append(m.SendCalls, messages)
	deadline, _ := ctx.Deadline()
	m.Deadlines = append(m.Deadlines, deadline)
	if m.SendFunc != nil {
		return m.SendFunc(messages)
	}
	return nil
}

// Sent returns every message passed to Send.
func (m *Mock) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []Message
	for _, call := range m.SendCalls {
		all = append(all, call...)
	}
	return all
}
