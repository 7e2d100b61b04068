package main

import (
	"context"
	"log"
	"time"

	"venture_claims_go/config"
	"venture_claims_go/db"
	"venture_claims_go/handlers"
	"venture_claims_go/middleware"
	"venture_claims_go/models"
	"venture_claims_go/services"
	"venture_claims_go/store"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize the application database (users, sessions, chat, alerts,
	// clients, knowledge base)
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Alert{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.ReferenceDocument{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Claim record store: remote when configured, otherwise the process
	// runs in fallback mode for its lifetime.
	claimStore, err := buildClaimStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize claim store: %v", err)
	}

	// Object storage for claim documents
	services.InitializeStorage(cfg)

	aggregate := services.NewClaimsAggregate(claimStore)
	if err := aggregate.Load(context.Background()); err != nil {
		log.Printf("[WARNING] Initial claim load failed: %v", err)
	}

	authService := services.NewAuthService(db.DB)
	alertService := services.NewAlertService(db.DB)
	emailService := services.NewEmailService(cfg)
	importService := services.NewImportService(db.DB, claimStore)
	intakeService := services.NewEmailIntakeService(db.DB, claimStore, alertService, emailService)

	llm := services.NewOpenAIClient(cfg.OpenAIAPIKey)
	var chatService *services.ChatService
	if llm != nil {
		chatService = services.NewChatService(db.DB, llm, services.NewDocumentIndex(db.DB, llm))
	} else {
		log.Println("[WARNING] OPENAI_API_KEY not set; chat assistant disabled")
		chatService = services.NewChatService(db.DB, nil, nil)
	}

	authHandler := handlers.NewAuthHandler(authService, cfg.Environment == "production")
	claimsHandler := handlers.NewClaimsHandler(aggregate)
	chatHandler := handlers.NewChatHandler(chatService)
	alertsHandler := handlers.NewAlertsHandler(alertService)
	importHandler := handlers.NewImportHandler(importService)
	webhookHandler := handlers.NewEmailWebhookHandler(intakeService)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Locally stored uploads are served as static files
	e.Static("/static", "static")

	// Public routes
	e.POST("/api/login", authHandler.Login)
	e.POST("/api/logout", authHandler.Logout)
	e.POST("/api/email-webhook", webhookHandler.Receive)

	// Protected routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth(authService))
	{
		api.GET("/me", authHandler.Me)

		api.GET("/claims", claimsHandler.List)
		api.GET("/claims/search", claimsHandler.Search)
		api.GET("/claims/totals", claimsHandler.Totals)
		api.GET("/claims/:id", claimsHandler.Get)
		api.POST("/claims", claimsHandler.Create)
		api.PUT("/claims/:id", claimsHandler.Update)
		api.DELETE("/claims/:id", claimsHandler.Delete)
		api.POST("/claims/:id/documents", claimsHandler.UploadDocument)
		api.POST("/claims/:id/communications", claimsHandler.AddCommunication)

		api.POST("/chat", chatHandler.SendMessage)
		api.GET("/chat/sessions", chatHandler.ListSessions)
		api.GET("/chat/sessions/:id/messages", chatHandler.SessionMessages)
		api.DELETE("/chat/sessions/:id", chatHandler.DeleteSession)

		api.GET("/alerts", alertsHandler.List)
		api.PUT("/alerts/:id/read", alertsHandler.MarkRead)
		api.PUT("/alerts/read-all", alertsHandler.MarkAllRead)

		api.POST("/import/clients", importHandler.ImportClients)
		api.POST("/import/claims", importHandler.ImportClaims)
		api.GET("/import/template", importHandler.Template)
	}

	// Session cleanup (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := authService.CleanupExpiredSessions(context.Background()); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildClaimStore selects the record store implementation. The remote store
// always carries a local mirror for read degradation; without remote
// configuration the mirror is the store.
func buildClaimStore(cfg *config.Config) (store.ClaimStore, error) {
	fallback, err := store.OpenFallback(cfg.FallbackDBPath)
	if err != nil {
		return nil, err
	}

	if !cfg.RemoteStoreConfigured() {
		log.Println("Remote record store not configured; running in fallback mode")
		return fallback, nil
	}

	remote, err := db.OpenRemote(cfg.TursoDatabaseURL, cfg.TursoAuthToken)
	if err != nil {
		log.Printf("[WARNING] Remote record store unreachable (%v); running in fallback mode", err)
		return fallback, nil
	}
	return store.NewRemoteStore(remote, fallback), nil
}
