package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	GamesCreated       prometheus.Counter
	Joins              prometheus.Counter
	Leaves             prometheus.Counter
	CapacityRejections prometheus.Counter
	ReminderRuns       prometheus.Counter
	RemindersSent      prometheus.Counter
	DispatchFailures   prometheus.Counter
	DispatchDuration   prometheus.Histogram
	OpsAlertSent       prometheus.Counter
	OpsAlertFailed     prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
