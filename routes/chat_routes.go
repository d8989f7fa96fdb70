package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for conversations and messages under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService, sessionService *services.SessionService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.Use(controllers.SessionAuth(sessionService))

	chatRouter.HandleFunc("/conversations", controller.HandleStartConversation).Methods("POST")
	chatRouter.HandleFunc("/conversations/accept", controller.HandleAcceptConversation).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/messages/read", controller.HandleMarkMessagesRead).Methods("POST")
}
