package notifier

import (
	"context"
	"sync"
)

// MockNotifier is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	// Spies for method calls
	SendOpsAlertFunc func(alert Alert, dryRun bool) error

	// Call records
	SendOpsAlertCalls []Alert
}

// NewMock creates a new mock instance.
func NewMock() *MockNotifier {
	return &MockNotifier{}
}

// Reset clears all call records.
func (m *MockNotifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendOpsAlertCalls = nil
}

func (m *MockNotifier) SendOpsAlert(ctx context.Context, alert Alert, dryRun bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendOpsAlertCalls = append(m.SendOpsAlertCalls, alert)
	if m.SendOpsAlertFunc != nil {
		return m.SendOpsAlertFunc(alert, dryRun)
	}
	return nil
}

// Alerts returns a copy of the recorded alerts.
func (m *MockNotifier) Alerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.SendOpsAlertCalls))
	copy(out, m.SendOpsAlertCalls)
	return out
}
