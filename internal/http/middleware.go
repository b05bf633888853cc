package http

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gatorpickup/pickup/internal/auth"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const (
	dryRunKey contextKey = "dryRun"
)

// CronSecretHeader carries the shared secret on scheduler-triggered requests.
const CronSecretHeader = "X-Cron-Secret"

// paramsMiddleware handles common query parameters like 'verbose' and 'dry_run'.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		// Handle 'verbose' for request-scoped verbose logging.
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}

		// Handle 'dry_run' and add it to the request context.
		isDryRun := r.URL.Query().Get("dry_run") == "true"
		ctx := context.WithValue(r.Context(), dryRunKey, isDryRun)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isDryRunFromContext is a helper to safely retrieve the dry_run flag from the request context.
func isDryRunFromContext(r *http.Request) bool {
	dryRun, ok := r.Context().Value(dryRunKey).(bool)
	return ok && dryRun
}

// authMiddleware verifies the bearer token and makes sure the caller has a profile row,
// since games, participants and messages all reference one.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		userID, err := s.Verifier.Verify(token)
		if err != nil {
			log.Debug("Rejected token", "error", err)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: auth.ErrInvalidToken.Error()})
			return
		}
		if err := s.Profiles.Ensure(r.Context(), userID); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

// cronMiddleware guards scheduler endpoints with the shared cron secret. With no secret
// configured the endpoints are open, which is only meant for local development.
func (s *Server) cronMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret := s.Cfg.Auth.CronSecret
		if secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(CronSecretHeader)), []byte(secret)) != 1 {
			log.Warn("Rejected scheduler request with bad secret", "url", r.URL.Path)
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid cron secret"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
