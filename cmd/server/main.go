package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/cardhaus/deck-checker/internal/api"
	"github.com/cardhaus/deck-checker/internal/config"
	"github.com/cardhaus/deck-checker/internal/database"
	"github.com/cardhaus/deck-checker/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	if err := database.Initialize(cfg.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	// Initialize services
	tokens := services.NewTokenCache(cfg.ShopifyDomain, cfg.ShopifyClientID, cfg.ShopifyClientSecret)
	shopify := services.NewShopifyClient(tokens, cfg.ShopifyDomain, cfg.ShopifyAPIVersion)
	syncService := services.NewSyncService(db, shopify, cfg.ShopifyDomain)
	matcher := services.NewMatchService(db)
	parser := services.NewDeckParser(services.NewMoxfieldClient(), services.NewArchidektClient())

	// Create a cancellable context for background work
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runSync := func() {
		if _, err := syncService.SyncInventory(ctx); err != nil {
			log.Printf("Inventory sync failed: %v", err)
		}
	}

	// Schedule the periodic inventory sync
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.SyncSchedule, runSync); err != nil {
		log.Fatalf("Invalid sync schedule %q: %v", cfg.SyncSchedule, err)
	}
	scheduler.Start()
	log.Printf("Inventory sync scheduled: %s", cfg.SyncSchedule)

	if cfg.SyncOnStartup {
		go func() {
			// Wait a bit for the server to be ready
			time.Sleep(5 * time.Second)
			log.Println("Starting inventory sync on startup...")
			runSync()
		}()
	}

	// Setup router
	router := api.SetupRouter(parser, matcher, syncService, cfg.CORSOrigins)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop the scheduler and cancel any background sync
	scheduler.Stop()
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
