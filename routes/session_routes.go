package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up routes for session lifecycle under /api/session
func RegisterSessionRoutes(r *mux.Router, sessionService *services.SessionService) {
	controller := controllers.NewSessionController(sessionService)

	sessionRouter := r.PathPrefix("/api/session").Subrouter()

	sessionRouter.HandleFunc("", controller.HandleCreateSession).Methods("POST")
	sessionRouter.HandleFunc("", controller.HandleGetSession).Methods("GET")
	sessionRouter.HandleFunc("/refresh", controller.HandleRefreshSession).Methods("POST")
	sessionRouter.HandleFunc("/logout", controller.HandleLogout).Methods("POST")
}
