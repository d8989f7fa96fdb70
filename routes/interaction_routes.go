package routes

import (
	"amoria_server/controllers"
	"amoria_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for like/pass operations under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService, sessionService *services.SessionService) {
	controller := controllers.NewInteractionController(interactionService)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()
	interactionRouter.Use(controllers.SessionAuth(sessionService))

	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/unlike", controller.HandleUnlike).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	interactionRouter.HandleFunc("/unpass", controller.HandleUnpass).Methods("POST")
	interactionRouter.HandleFunc("/markMatchSeen", controller.HandleMarkMatchSeen).Methods("POST")
	interactionRouter.HandleFunc("/likesSent", controller.HandleGetLikesSent).Methods("GET")
	interactionRouter.HandleFunc("/likesReceivedCount", controller.HandleGetLikesReceivedCount).Methods("GET")
	interactionRouter.HandleFunc("/matches", controller.HandleGetMatches).Methods("GET")
	interactionRouter.HandleFunc("/newMatchesCount", controller.HandleGetNewMatchesCount).Methods("GET")
	interactionRouter.HandleFunc("/hidden", controller.HandleGetHiddenProfiles).Methods("GET")
}
