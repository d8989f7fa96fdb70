package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"amoria_server/models"
)

// writeJSON writes a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

// writeError maps domain rejections to their HTTP status; everything else is
// an infrastructure failure and surfaces as 500.
func writeError(w http.ResponseWriter, err error) {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusForCode(appErr.Code), appErr)
		return
	}
	log.Printf("❌ Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal error"})
}

func statusForCode(code string) int {
	switch code {
	case models.CodeInvalidOperation:
		return http.StatusBadRequest
	case models.CodeNotFound:
		return http.StatusNotFound
	case models.CodeConversationNotAccepted, models.CodeNotParticipant,
		models.CodePartnerNotFound, models.CodeNotCallable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
