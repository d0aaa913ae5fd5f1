package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authgate/internal/config"
	"authgate/internal/database"
	"authgate/internal/handlers"
	"authgate/internal/repository"
	"authgate/internal/security"
	"authgate/internal/service"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(context.Background(), cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Initialize email service
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.ContactEmail, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	// Initialize services
	hasher := security.NewHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, hasher, cfg.SessionDuration, cfg.QueryTimeout)
	resetService := service.NewResetService(tokenRepo, userRepo, hasher, emailService, cfg.ResetTokenTTL, cfg.QueryTimeout)

	// Initialize handlers
	signer := security.NewCookieSigner(cfg.SessionSecret)
	limiter := security.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	middleware := handlers.NewMiddleware(authService, signer, limiter)
	authHandler := handlers.NewAuthHandler(authService, signer)
	resetHandler := handlers.NewResetHandler(resetService)
	contactHandler := handlers.NewContactHandler(emailService)
	pageHandler := handlers.NewPageHandler(cfg.StaticFilesPath, middleware)

	// Setup routes
	mux := http.NewServeMux()

	// Static assets
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.StaticFilesPath+"/assets"))))

	// Pages
	mux.HandleFunc("GET /{$}", pageHandler.Home)
	mux.HandleFunc("GET /login.html", pageHandler.Page("login.html"))
	mux.HandleFunc("GET /register.html", pageHandler.Page("register.html"))
	mux.HandleFunc("GET /forgot-password.html", pageHandler.Page("forgot-password.html"))
	mux.HandleFunc("GET /reset-password.html", pageHandler.Page("reset-password.html"))
	mux.HandleFunc("GET /index.html", pageHandler.Index)

	// Auth endpoints
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /logout", authHandler.Logout)

	// Password reset endpoints
	mux.HandleFunc("POST /forgot-password", middleware.RateLimit(resetHandler.ForgotPassword))
	mux.HandleFunc("POST /reset-password", middleware.RateLimit(resetHandler.ResetPassword))

	// Contact-form relay
	mux.HandleFunc("POST /contact", middleware.RateLimit(contactHandler.Submit))

	// Everything else gets the custom 404 page
	mux.HandleFunc("/", pageHandler.NotFound)

	// Wrap with security headers and logging middleware
	handler := handlers.Logging(handlers.SecurityHeaders(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background cleanup of expired sessions and reset tokens
	go cleanupExpired(authService, resetService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// cleanupExpired periodically removes expired sessions and reset tokens
func cleanupExpired(authService *service.AuthService, resetService *service.ResetService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		ctx := context.Background()

		if err := authService.CleanupExpiredSessions(ctx); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		} else {
			log.Println("Expired sessions cleaned up")
		}

		if err := resetService.CleanupExpired(ctx); err != nil {
			log.Printf("Error cleaning up expired reset tokens: %v", err)
		} else {
			log.Println("Expired reset tokens cleaned up")
		}
	}
}
