package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes sets up routes for profile operations under /api/profiles
func RegisterUserProfileRoutes(r *mux.Router, userProfileService *services.UserProfileService, sessionService *services.SessionService) {
	controller := controllers.NewUserProfileController(userProfileService)

	profileRouter := r.PathPrefix("/api/profiles").Subrouter()
	profileRouter.Use(controllers.SessionAuth(sessionService))

	profileRouter.HandleFunc("", controller.HandleGetProfile).Methods("GET")
	profileRouter.HandleFunc("/callable", controller.HandleSetCallable).Methods("PATCH")
}
