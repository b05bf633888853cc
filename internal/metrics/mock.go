package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	gamesCreated       int
	joins              int
	leaves             int
	capacityRejections int
	reminderRuns       int
	remindersSent      int
	dispatchFailures   int
	dispatchDurations  []float64
	opsAlertSent       int
	opsAlertFailed     int
	startupTime        float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		dispatchDurations: make([]float64, 0),
	}
}

func (m *Mock) IncGamesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCreated++
}

func (m *Mock) IncJoins() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.joins++
}

func (m *Mock) IncLeaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves++
}

func (m *Mock) IncCapacityRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capacityRejections++
}

func (m *Mock) IncReminderRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reminderRuns++
}

func (m *Mock) AddRemindersSent(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersSent += count
}

func (m *Mock) IncDispatchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFailures++
}

func (m *Mock) ObserveDispatchDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchDurations = append(m.dispatchDurations, duration)
}

func (m *Mock) IncOpsAlertSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opsAlertSent++
}

func (m *Mock) IncOpsAlertFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opsAlertFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Joins returns the number of times IncJoins was called.
func (m *Mock) Joins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.joins
}

// Leaves returns the number of times IncLeaves was called.
func (m *Mock) Leaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.leaves
}

// CapacityRejections returns the number of times IncCapacityRejections was called.
func (m *Mock) CapacityRejections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.capacityRejections
}

// GamesCreated returns the number of times IncGamesCreated was called.
func (m *Mock) GamesCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCreated
}

// ReminderRuns returns the number of times IncReminderRuns was called.
func (m *Mock) ReminderRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminderRuns
}

// RemindersSent returns the sum passed to AddRemindersSent.
func (m *Mock) RemindersSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remindersSent
}

// DispatchFailures returns the number of times IncDispatchFailures was called.
func (m *Mock) DispatchFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatchFailures
}

// OpsAlertSent returns the number of times IncOpsAlertSent was called.
func (m *Mock) OpsAlertSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opsAlertSent
}

// OpsAlertFailed returns the number of times IncOpsAlertFailed was called.
func (m *Mock) OpsAlertFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opsAlertFailed
}
