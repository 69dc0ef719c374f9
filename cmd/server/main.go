package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/api/option"

	"tubesearch/internal/config"
	"tubesearch/internal/db"
	"tubesearch/internal/email"
	"tubesearch/internal/jobs"
	"tubesearch/internal/metrics"
	"tubesearch/internal/server"
	"tubesearch/internal/youtube"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// YouTube search client
	search, err := youtube.New(ctx, cfg.MaxPages, option.WithAPIKey(cfg.YouTubeAPIKey))
	if err != nil {
		log.Fatalf("Failed to create YouTube client: %v", err)
	}

	// The result store authenticates as the service role per run, so a
	// credential problem surfaces as a failed run, not a failed boot. The
	// store itself outlives every run and is closed only here.
	store := db.NewResultStore(cfg.ServiceDatabaseURL)
	defer store.Close()

	metrics.Init()

	runner := jobs.NewRunner(database, search, store, email.NewNotifier(cfg))

	srv := server.New(cfg)
	srv.RegisterRoutes(database, runner, search)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
