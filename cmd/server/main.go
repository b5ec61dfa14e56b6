package main

import (
	"net/http"

	"chatbot/internal/api/handlers"
	"chatbot/internal/app"
	"chatbot/internal/config"
	"chatbot/internal/logger"
	"chatbot/internal/repository/postgres"
	"chatbot/internal/service/chat"
	"chatbot/internal/service/generator"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func main() {
	// Load configuration
	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	// Initialize database
	logger.Log.Info("Initializing database")
	database, err := postgres.NewPostgresDB(appConfig.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	cfg := app.NewConfig(database, appConfig)

	// The finalizer persists completed turns independently of request
	// lifetimes; shut it down last so queued finalizations drain.
	finalizer := chat.NewFinalizer(database)
	defer finalizer.Shutdown()

	gen := generator.NewDummyGenerator(&appConfig.Generator)

	chatHandlers := handlers.NewChatHandlers(cfg, gen, finalizer)
	conversationHandlers := handlers.NewConversationHandlers(cfg)

	// Use Go 1.22+ routing features for methods and path parameters
	mux := http.NewServeMux()

	// CORS preflight handler for OPTIONS requests
	corsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.WriteHeader(http.StatusOK)
	}

	mux.HandleFunc("GET /api/health", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	// Chat endpoints
	mux.HandleFunc("POST /api/chat/send", enableCORS(chatHandlers.SendHandler))
	mux.HandleFunc("OPTIONS /api/chat/send", corsHandler)
	mux.HandleFunc("POST /api/chat/rate", enableCORS(chatHandlers.RateHandler))
	mux.HandleFunc("OPTIONS /api/chat/rate", corsHandler)

	// Conversation endpoints
	mux.HandleFunc("GET /api/conversations", enableCORS(conversationHandlers.ListHandler))
	mux.HandleFunc("POST /api/conversations", enableCORS(conversationHandlers.CreateHandler))
	mux.HandleFunc("OPTIONS /api/conversations", corsHandler)
	mux.HandleFunc("GET /api/conversations/{id}/messages", enableCORS(conversationHandlers.MessagesHandler))
	mux.HandleFunc("OPTIONS /api/conversations/{id}/messages", corsHandler)
	mux.HandleFunc("PATCH /api/conversations/{id}", enableCORS(conversationHandlers.RenameHandler))
	mux.HandleFunc("DELETE /api/conversations/{id}", enableCORS(conversationHandlers.DeleteHandler))
	mux.HandleFunc("OPTIONS /api/conversations/{id}", corsHandler)

	port := appConfig.Server.Port
	logger.Log.WithField("port", port).Info("Server starting")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Log.WithError(err).Fatal("Server failed to start")
	}
}
