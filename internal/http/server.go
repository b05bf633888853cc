package http

import (
	"net/http"

	"github.com/gatorpickup/pickup/internal/auth"
	"github.com/gatorpickup/pickup/internal/chat"
	"github.com/gatorpickup/pickup/internal/config"
	"github.com/gatorpickup/pickup/internal/profile"
	"github.com/gatorpickup/pickup/internal/reminder"
	"github.com/gatorpickup/pickup/internal/roster"
)

func NewServer(rosterSvc *roster.Service, profiles profile.Store, chat chat.Chat, dispatcher *reminder.Dispatcher, verifier *auth.Verifier, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Roster:         rosterSvc,
		Profiles:       profiles,
		Chat:           chat,
		Dispatcher:     dispatcher,
		Verifier:       verifier,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// App routes need a user; scheduler routes need the cron secret.
	app := []Middleware{paramsMiddleware, s.authMiddleware}
	cron := []Middleware{paramsMiddleware, s.cronMiddleware}

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /locations", Chain(s.ListLocationsHandler(), app...))

	s.Router.Handle("GET /games", Chain(s.ListGamesHandler(), app...))
	s.Router.Handle("POST /games", Chain(s.CreateGameHandler(), app...))
	s.Router.Handle("GET /games/{id}", Chain(s.GetGameHandler(), app...))
	s.Router.Handle("GET /games/{id}/roster", Chain(s.RosterHandler(), app...))
	s.Router.Handle("POST /games/{id}/join", Chain(s.JoinGameHandler(), app...))
	s.Router.Handle("POST /games/{id}/leave", Chain(s.LeaveGameHandler(), app...))
	s.Router.Handle("GET /games/{id}/messages", Chain(s.ListMessagesHandler(), app...))
	s.Router.Handle("POST /games/{id}/messages", Chain(s.PostMessageHandler(), app...))

	s.Router.Handle("GET /profiles/{id}", Chain(s.GetProfileHandler(), app...))
	s.Router.Handle("GET /profiles/{id}/stats", Chain(s.ProfileStatsHandler(), app...))
	s.Router.Handle("PUT /profiles/me", Chain(s.UpdateProfileHandler(), app...))
	s.Router.Handle("PUT /profiles/me/push-token", Chain(s.SetPushTokenHandler(), app...))

	s.Router.Handle("POST /reminders/dispatch", Chain(s.DispatchRemindersHandler(), cron...))
	s.Router.Handle("POST /games/complete-past", Chain(s.CompletePastGamesHandler(), cron...))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
