package controllers

import (
	"encoding/json"
	"net/http"

	"amoria_server/models"
	"amoria_server/services"
)

// SessionController handles HTTP requests for session lifecycle
type SessionController struct {
	SessionService *services.SessionService
}

// NewSessionController creates a new SessionController instance
func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// HandleCreateSession overwrites the session under a fresh TTL. Used both on
// login and when the route layer refreshes a session with new data.
func (sc *SessionController) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var request struct {
		SessionID string         `json:"sessionId"`
		Data      models.Session `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.SessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	session, err := sc.SessionService.GetOrCreate(r.Context(), request.SessionID, request.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleGetSession returns the session or 404 when it is absent or corrupt
func (sc *SessionController) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	session, err := sc.SessionService.Get(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "session not found"})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// HandleRefreshSession slides the TTL without rewriting the payload
func (sc *SessionController) HandleRefreshSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	if err := sc.SessionService.RefreshTTL(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Session refreshed"})
}

// HandleLogout deletes the session; deleting an absent session succeeds
func (sc *SessionController) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get("X-Session-Id")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	if err := sc.SessionService.Delete(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
