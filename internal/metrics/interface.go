package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncGamesCreated()
	IncJoins()
	IncLeaves()
	IncCapacityRejections()
	IncReminderRuns()
	AddRemindersSent(count int)
	IncDispatchFailures()
	ObserveDispatchDuration(duration float64)
	IncOpsAlertSent()
	IncOpsAlertFailed()
	SetStartupTime(duration float64)
}
