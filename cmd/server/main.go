package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/converse-app/converse/internal/config"
	"github.com/converse-app/converse/internal/domain"
	"github.com/converse-app/converse/internal/handlers"
	"github.com/converse-app/converse/internal/middleware"
	conversationrepo "github.com/converse-app/converse/internal/repository/conversation"
	messagerepo "github.com/converse-app/converse/internal/repository/message"
	userrepo "github.com/converse-app/converse/internal/repository/user"
	"github.com/converse-app/converse/internal/services"
	"github.com/converse-app/converse/internal/services/ai"
	"github.com/converse-app/converse/internal/services/user_services"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL != "" {
		return gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(cfg.SQLitePath), &gorm.Config{})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("server")

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	userRepo := userrepo.NewGormUserRepository(db)
	conversationRepo := conversationrepo.NewConversationRepository(db)
	messageRepo := messagerepo.NewMessageRepository(db)

	// --- Services ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.LLMAPIKey
	aiConfig.BaseURL = cfg.LLMBaseURL
	aiConfig.Model = cfg.LLMModel
	aiConfig.HistoryTurns = cfg.HistoryTurns

	aiService, err := services.NewAIService(aiConfig, services.NewLogger("ai"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI Service: %v", err)
	}

	tokenTTL := time.Duration(cfg.TokenTTLMinutes) * time.Minute
	userService := user_services.NewUserService(userRepo, cfg.JWTSecretKey, tokenTTL, services.NewLogger("user"))

	conversationService, err := services.NewConversationService(conversationRepo, messageRepo, aiService, services.NewLogger("conversation"))
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.RequireAuth(userService.AuthService)

	r.Use(corsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.RequestLogger(logger))

	// --- Public Routes ---
	r.HandleFunc("/", handlers.Root).Methods("GET")
	r.HandleFunc("/health", handlers.Health).Methods("GET")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/token", authHandler.Login).Methods("POST")

	// --- Protected Routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("/users/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/users/me", authHandler.DeleteAccount).Methods("DELETE")
	protected.HandleFunc("/conversations", conversationHandler.Create).Methods("POST")
	protected.HandleFunc("/conversations", conversationHandler.List).Methods("GET")
	protected.HandleFunc("/conversations/{id:[0-9]+}", conversationHandler.Get).Methods("GET")
	protected.HandleFunc("/conversations/{id:[0-9]+}", conversationHandler.UpdateTitle).Methods("PUT")
	protected.HandleFunc("/conversations/{id:[0-9]+}", conversationHandler.Delete).Methods("DELETE")
	protected.HandleFunc("/conversations/{id:[0-9]+}/messages", conversationHandler.SendMessage).Methods("POST")

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
