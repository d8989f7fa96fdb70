package controllers

import (
	"log"
	"net/http"

	"amoria_server/services"
)

// SessionAuth rejects requests without a live session and slides the TTL of
// the session that made it through. Handlers behind it can assume the caller
// is authenticated.
func SessionAuth(sessions *services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get("X-Session-Id")
			if sessionID == "" {
				http.Error(w, "missing session", http.StatusUnauthorized)
				return
			}

			session, err := sessions.Get(r.Context(), sessionID)
			if err != nil {
				log.Printf("❌ Session lookup failed: %v", err)
				http.Error(w, "session lookup failed", http.StatusInternalServerError)
				return
			}
			if session == nil {
				http.Error(w, "not authenticated", http.StatusUnauthorized)
				return
			}

			if err := sessions.RefreshTTL(r.Context(), sessionID); err != nil {
				log.Printf("❌ Failed to refresh session TTL: %v", err)
				http.Error(w, "session refresh failed", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
