package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"amoria_server/services"
)

// ChatController handles HTTP requests for conversations and messages
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController creates a new ChatController instance
func NewChatController(chatService *services.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// HandleStartConversation opens an INITIATED conversation with a first message
func (cc *ChatController) HandleStartConversation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ProfileID       string `json:"profileId"`
		TargetProfileID string `json:"targetProfileId"`
		Content         string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ProfileID == "" || request.TargetProfileID == "" {
		http.Error(w, "profileId and targetProfileId are required", http.StatusBadRequest)
		return
	}

	conversation, err := cc.ChatService.StartConversation(r.Context(), request.ProfileID, request.TargetProfileID, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

// HandleAcceptConversation flips a conversation to ACCEPTED
func (cc *ChatController) HandleAcceptConversation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" {
		http.Error(w, "conversationId is required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.AcceptConversation(r.Context(), request.ConversationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Conversation accepted"})
}

// HandleSendMessage stores a message and notifies the recipient
func (cc *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID  string `json:"conversationId"`
		SenderProfileID string `json:"senderProfileId"`
		Content         string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.SenderProfileID == "" || request.Content == "" {
		http.Error(w, "conversationId, senderProfileId and content are required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.SendMessage(r.Context(), request.ConversationID, request.SenderProfileID, request.Content); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent"})
}

// HandleGetMessages fetches messages for a conversation, newest first
func (cc *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	if conversationID == "" {
		http.Error(w, "conversationId is required", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	messages, err := cc.ChatService.GetMessages(r.Context(), conversationID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleMarkMessagesRead marks the caller's received messages as read
func (cc *ChatController) HandleMarkMessagesRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		ProfileID      string `json:"profileId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.ConversationID == "" || request.ProfileID == "" {
		http.Error(w, "conversationId and profileId are required", http.StatusBadRequest)
		return
	}

	if err := cc.ChatService.MarkMessagesAsRead(r.Context(), request.ConversationID, request.ProfileID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Messages marked as read"})
}
