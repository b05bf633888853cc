package pubsub

import (
	"context"
	"sync"
)

// MockPubSubClient is a mock implementation of PubSubClient for testing.
// It is safe for concurrent use.
type MockPubSubClient struct {
	mu sync.Mutex

	// Spies for method calls
	PublishFunc func(change Change) error

	// Call records
	PublishCalls []Change
}

// NewMock creates a new mock PubSubClient.
func NewMock() *MockPubSubClient {
	return &MockPubSubClient{}
}

// Reset clears all call records.
func (m *MockPubSubClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = nil
}

// Publish records the call and executes the mock function if provided.
func (m *MockPubSubClient) Publish(ctx context.Context, change Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, change)
	if m.PublishFunc != nil {
		return m.PublishFunc(change)
	}
	return nil
}

func (m *MockPubSubClient) Decode(data []byte, change *Change) error {
	return Decode(data, change)
}

func (m *MockPubSubClient) Close() {}

// Calls returns a copy of the recorded changes.
func (m *MockPubSubClient) Calls() []Change {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Change, len(m.PublishCalls))
	copy(out, m.PublishCalls)
	return out
}
