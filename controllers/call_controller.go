package controllers

import (
	"encoding/json"
	"net/http"

	"amoria_server/models"
	"amoria_server/services"
)

// CallController handles HTTP requests for call signaling
type CallController struct {
	CallService *services.CallService
	Notifier    *services.NotificationService
}

// NewCallController creates a new CallController instance
func NewCallController(callService *services.CallService, notifier *services.NotificationService) *CallController {
	return &CallController{CallService: callService, Notifier: notifier}
}

// HandleInitiateCall validates and starts a call, then rings the callee
func (cc *CallController) HandleInitiateCall(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID  string `json:"conversationId"`
		CallerProfileID string `json:"callerProfileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.CallerProfileID == "" {
		http.Error(w, "conversationId and callerProfileId are required", http.StatusBadRequest)
		return
	}

	call, err := cc.CallService.InitiateCall(r.Context(), request.ConversationID, request.CallerProfileID)
	if err != nil {
		writeError(w, err)
		return
	}

	cc.Notifier.Notify(r.Context(), call.CalleeProfileID, models.RealtimeEvent{
		Type: models.EventIncomingCall,
		Payload: models.IncomingCallPayload{
			ConversationID: request.ConversationID,
			RoomName:       call.RoomName,
			Caller: models.CallerInfo{
				ID:         request.CallerProfileID,
				PublicName: call.CallerPublicName,
			},
		},
	})

	writeJSON(w, http.StatusOK, call)
}

// HandleMissedCall records an unanswered call as a system message
func (cc *CallController) HandleMissedCall(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID  string `json:"conversationId"`
		CallerProfileID string `json:"callerProfileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.CallerProfileID == "" {
		http.Error(w, "conversationId and callerProfileId are required", http.StatusBadRequest)
		return
	}

	if err := cc.CallService.InsertMissedCallMessage(r.Context(), request.ConversationID, request.CallerProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Missed call recorded"})
}

// HandleUpdateCallable flips the participant-level callable flag
func (cc *CallController) HandleUpdateCallable(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		ProfileID      string `json:"profileId"`
		IsCallable     *bool  `json:"isCallable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.ProfileID == "" || request.IsCallable == nil {
		http.Error(w, "conversationId, profileId and isCallable are required", http.StatusBadRequest)
		return
	}

	if err := cc.CallService.UpdateCallableStatus(r.Context(), request.ConversationID, request.ProfileID, *request.IsCallable); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Callable status updated"})
}
