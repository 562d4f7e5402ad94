package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"diceparty/internal/api"
	"diceparty/internal/auth"
	"diceparty/internal/command"
	"diceparty/internal/config"
	"diceparty/internal/events"
	"diceparty/internal/notifier"
	"diceparty/internal/router"
	"diceparty/internal/store"
	"diceparty/internal/transport"
)

// @title Dice Party API
// @version 1.0
// @description Server-side core of a multiplayer real-time dice-drinking game
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /v1
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the item store
	itemStore, err := store.Open(
		cfg.Database.URL,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		time.Duration(cfg.Database.ConnMaxLifetime)*time.Second,
	)
	if err != nil {
		log.Fatalf("Failed to initialize item store: %v", err)
	}
	log.Println("Item store migrated and ready")

	// Initialize the event publisher (lifecycle events feeding cmd/worker)
	eventPublisher := events.NewKafkaPublisher(events.KafkaConfig{
		BootstrapServers: cfg.Kafka.BootstrapServers,
		APIKey:           cfg.Kafka.APIKey,
		APISecret:        cfg.Kafka.APISecret,
		Topic:            cfg.Kafka.Topic,
	})
	log.Printf("Event publisher initialized for Kafka topic: %s", cfg.Kafka.Topic)

	// Initialize the notifier hub and command service. The hub addresses
	// this process's own live connections; the timeout worker runs as a
	// separate entrypoint (cmd/worker) and notifies through the cloud
	// sender instead, since it has none of these connections registered.
	hub := notifier.NewHub()
	svc := command.New(itemStore, hub, eventPublisher, cfg.Environment)

	// Wire the action router
	r := router.New()
	router.Wire(r, svc)

	// Set Gin mode based on environment
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	ginRouter := gin.New()

	authenticator := auth.New(cfg.Legacy.JWTSecret)
	api.SetupRoutes(ginRouter, authenticator, slog.Default())

	wsHandler := transport.NewHandler(svc, hub, r, transport.DefaultConfig())
	ginRouter.GET("/ws", gin.WrapH(wsHandler))

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      ginRouter,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := eventPublisher.Close(); err != nil {
		log.Printf("Error closing event publisher: %v", err)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
