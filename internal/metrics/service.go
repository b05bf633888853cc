package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		GamesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_games_created_total",
			Help: "The total number of games created.",
		}),
		Joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_roster_joins_total",
			Help: "The total number of successful joins, excluding idempotent re-joins.",
		}),
		Leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_roster_leaves_total",
			Help: "The total number of successful leaves.",
		}),
		CapacityRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_roster_capacity_rejections_total",
			Help: "The total number of joins rejected because the game was full or the race was lost.",
		}),
		ReminderRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_reminder_runs_total",
			Help: "The total number of reminder dispatcher invocations.",
		}),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_reminders_sent_total",
			Help: "The total number of reminder push messages handed to the push endpoint.",
		}),
		DispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_reminder_dispatch_failures_total",
			Help: "The total number of reminder invocations that failed.",
		}),
		DispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pickup_reminder_dispatch_duration_seconds",
			Help:    "The duration of reminder dispatcher invocations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		OpsAlertSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_ops_alerts_sent_total",
			Help: "The total number of operational alerts successfully sent.",
		}),
		OpsAlertFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pickup_ops_alerts_failed_total",
			Help: "The total number of operational alerts that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pickup_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.GamesCreated,
		s.Joins,
		s.Leaves,
		s.CapacityRejections,
		s.ReminderRuns,
		s.RemindersSent,
		s.DispatchFailures,
		s.DispatchDuration,
		s.OpsAlertSent,
		s.OpsAlertFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncGamesCreated() {
	s.GamesCreated.Inc()
}

func (s *Service) IncJoins() {
	s.Joins.Inc()
}

func (s *Service) IncLeaves() {
	s.Leaves.Inc()
}

func (s *Service) IncCapacityRejections() {
	s.CapacityRejections.Inc()
}

func (s *Service) IncReminderRuns() {
	s.ReminderRuns.Inc()
}

func (s *Service) AddRemindersSent(count int) {
	s.RemindersSent.Add(float64(count))
}

func (s *Service) IncDispatchFailures() {
	s.DispatchFailures.Inc()
}

func (s *Service) ObserveDispatchDuration(duration float64) {
	s.DispatchDuration.Observe(duration)
}

func (s *Service) IncOpsAlertSent() {
	s.OpsAlertSent.Inc()
}

func (s *Service) IncOpsAlertFailed() {
	s.OpsAlertFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
