package http

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/game"
	"github.com/gatorpickup/pickup/internal/profile"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListLocationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locations, err := s.Roster.Locations(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, locations)
	}
}

// ListGamesHandler serves the upcoming games feed. Supports ?sport= and ?mine=true.
func (s *Server) ListGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter game.Filter
		if sport := r.URL.Query().Get("sport"); sport != "" {
			v := game.Sport(sport)
			filter.Sport = &v
		}
		if r.URL.Query().Get("mine") == "true" {
			filter.MineFor = userID(r)
		}

		games, err := s.Roster.ListGames(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		log.Debug("Listed games", "count", len(games), "mine", filter.MineFor != "")
		writeJSON(w, http.StatusOK, games)
	}
}

func (s *Server) CreateGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req game.NewGame
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		req.HostID = userID(r)

		g, err := s.Roster.CreateGame(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func (s *Server) GetGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := s.Roster.GetGame(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func (s *Server) RosterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		participants, err := s.Roster.Roster(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, participants)
	}
}

func (s *Server) JoinGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Roster.Join(r.Context(), r.PathValue("id"), userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) LeaveGameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.Roster.Leave(r.Context(), r.PathValue("id"), userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) ListMessagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.PathValue("id")
		if _, err := s.Roster.GetGame(r.Context(), gameID); err != nil {
			writeError(w, err)
			return
		}
		messages, err := s.Chat.List(r.Context(), gameID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, messages)
	}
}

func (s *Server) PostMessageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postMessageRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		msg, err := s.Chat.Post(r.Context(), r.PathValue("id"), userID(r), req.Content)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

// profileID resolves the {id} path value, where "me" means the caller.
func profileID(r *http.Request) string {
	id := r.PathValue("id")
	if id == "me" {
		return userID(r)
	}
	return id
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := s.Profiles.Get(r.Context(), profileID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) ProfileStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := profileID(r)
		if _, err := s.Profiles.Get(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		stats, err := s.Profiles.Stats(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req profile.Onboarding
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		p, err := s.Profiles.UpdateOnboarding(r.Context(), userID(r), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) SetPushTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pushTokenRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
		if err := s.Profiles.SetPushToken(r.Context(), userID(r), req.Token); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DispatchRemindersHandler runs one reminder dispatch. It is hit by the external
// scheduler every window width; ?dry_run=true counts without sending.
func (s *Server) DispatchRemindersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isDryRun := isDryRunFromContext(r)
		log.Info("Starting reminder dispatch", "dryRun", isDryRun)

		result, err := s.Dispatcher.Dispatch(r.Context(), isDryRun)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) CompletePastGamesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := s.Roster.CompletePastGames(r.Context(), s.Cfg.Scheduler.CompleteAfter)
		if err != nil {
			writeError(w, err)
			return
		}
		if ids == nil {
			ids = []string{}
		}
		log.Info("Completed past games", "count", len(ids))
		writeJSON(w, http.StatusOK, completeResponse{Completed: ids})
	}
}
