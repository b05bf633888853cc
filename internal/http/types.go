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

type Server struct {
	Roster         *roster.Service
	Profiles       profile.Store
	Chat           chat.Chat
	Dispatcher     *reminder.Dispatcher
	Verifier       *auth.Verifier
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}

type postMessageRequest struct {
	Content string `json:"content"`
}

type pushTokenRequest struct {
	Token *string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type completeResponse struct {
	Completed []string `json:"completed"`
}
