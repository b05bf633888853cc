package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/auth"
	"github.com/gatorpickup/pickup/internal/game"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrCapacityExceeded),
		errors.Is(err, game.ErrGameNotOpen),
		errors.Is(err, game.ErrConflict),
		errors.Is(err, game.ErrAlreadyRunning):
		return http.StatusConflict
	case errors.Is(err, game.ErrHostCannotLeave):
		return http.StatusForbidden
	case errors.Is(err, game.ErrDispatchFailed):
		return http.StatusBadGateway
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
		msg = "internal error"
	} else {
		log.Debug("Request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", game.ErrInvalid, err)
	}
	return nil
}

// userID returns the caller set by authMiddleware.
func userID(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}
