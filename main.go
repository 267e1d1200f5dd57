package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"pawlink_server/config"
	"pawlink_server/realtime"
	"pawlink_server/routes"
	"pawlink_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	petService := &services.PetProfileService{Dynamo: dynamoService}
	matchService := &services.MatchService{Dynamo: dynamoService, Pets: petService}
	chatService := &services.ChatService{Dynamo: dynamoService}

	s3Service, err := services.NewS3Service(cfg.AWSRegion, cfg.S3Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}

	// Start the realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to Pawlink")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// Register routes
	routes.RegisterPetRoutes(r, petService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterChatRoutes(r, chatService, matchService, hub)
	routes.RegisterPhotoRoutes(r, s3Service)

	// Realtime channel: join a match room, guarded like the chat endpoints
	r.HandleFunc("/ws", realtime.ServeWS(hub, matchService)).Methods("GET")

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Println("Shutting down HTTP server...")
		if err := httpServer.Shutdown(context.Background()); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		hub.Stop()
		close(idleConnsClosed)
	}()

	log.Printf("Starting server on port %s...\n", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	<-idleConnsClosed
	log.Println("Server stopped.")
}
