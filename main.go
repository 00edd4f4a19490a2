package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"twibbon-campaign/app"
	"twibbon-campaign/config"
	"twibbon-campaign/db"
	"twibbon-campaign/telemetry"
	"twibbon-campaign/utils"
)

func main() {
	// Load .env file in development (ignores error if file doesn't exist)
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		// Use Overload to ensure .env values override system environment variables
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.JWTSecret == "" {
		// sessions do not survive a restart without a configured secret
		cfg.JWTSecret = utils.RandomID(48)
		log.Printf("⚠️  JWT_SECRET not set, using a random secret for this process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTELEndpoint)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}

	// Initialize application
	handler, err := app.Initialize(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.CloseDB()

	// Listen on 0.0.0.0 to accept connections from all interfaces (required for Docker/Render)
	server := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		log.Printf("Campaign pages: %s", cfg.PublicURL("/c/{slug}"))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("❌ Tracing shutdown: %v", err)
	}
}
