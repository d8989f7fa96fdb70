package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"amoria_server/realtime"
	"amoria_server/routes"
	"amoria_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Initialize DynamoDB client and store
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	store := &services.DynamoStore{Dynamo: dynamoService}
	log.Println("DynamoDB client initialized.")

	// Initialize Redis-backed session store
	log.Println("Initializing Redis client...")
	redisClient := services.InitializeRedisClient()
	sessionService := &services.SessionService{Cache: &services.RedisCache{Client: redisClient}}
	log.Println("Redis client initialized.")

	// Realtime registry and fan-out
	registry := realtime.NewInMemoryRegistry()
	broadcaster := realtime.NewBroadcaster(registry)

	// Initialize Services
	notificationService := &services.NotificationService{Broadcaster: broadcaster, Store: store}
	chatService := &services.ChatService{Store: store, Notifier: notificationService}
	interactionService := &services.InteractionService{Store: store, Accepter: chatService, Notifier: notificationService}
	callService := &services.CallService{Store: store}
	userProfileService := &services.UserProfileService{Store: store}

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Amoria")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Websocket endpoint for the persistent per-connection channel
	realtimeServer := realtime.NewServer(registry, broadcaster, sessionService, chatService)
	r.HandleFunc("/ws", realtimeServer.HandleConnection)

	// Register routes
	routes.RegisterSessionRoutes(r, sessionService)
	routes.RegisterInteractionRoutes(r, interactionService, sessionService)
	routes.RegisterCallRoutes(r, callService, notificationService, sessionService)
	routes.RegisterChatRoutes(r, chatService, sessionService)
	routes.RegisterUserProfileRoutes(r, userProfileService, sessionService)
	routes.RegisterS3Routes(r)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Session-Id"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}
