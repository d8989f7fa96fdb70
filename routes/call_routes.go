package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterCallRoutes sets up routes for call signaling under /api/calls
func RegisterCallRoutes(r *mux.Router, callService *services.CallService, notifier *services.NotificationService, sessionService *services.SessionService) {
	controller := controllers.NewCallController(callService, notifier)

	callRouter := r.PathPrefix("/api/calls").Subrouter()
	callRouter.Use(controllers.SessionAuth(sessionService))

	callRouter.HandleFunc("/initiate", controller.HandleInitiateCall).Methods("POST")
	callRouter.HandleFunc("/missed", controller.HandleMissedCall).Methods("POST")
	callRouter.HandleFunc("/callable", controller.HandleUpdateCallable).Methods("PATCH")
}
