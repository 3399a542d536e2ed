// Path: cmd/daemon/main.go
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/semaphore"

	"price-hunter/internal/browser"
	"price-hunter/internal/config"
	"price-hunter/internal/delivery/rest"
	"price-hunter/internal/events"
	"price-hunter/internal/search"
	"price-hunter/internal/service"
	"price-hunter/internal/storage"
	"price-hunter/internal/stores"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 2. Setup Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize Database Connection
	logger.Info("connecting to MongoDB...")
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.URI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.Database.Name)

	// 4. Initialize Components
	logger.Info("initializing components...")
	broker := events.NewBroker()
	resultCache := storage.NewMongoResultCache(db, cfg.Database.CacheCollection)
	trackedStore := storage.NewMongoTrackedStore(db, cfg.Database.TrackedCollection)

	driver, err := browser.NewRodDriver(cfg.Browser, logger)
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer driver.Close()

	// One gate for live searches, comparisons and background refreshes alike.
	gate := semaphore.NewWeighted(int64(cfg.Search.MaxSessions))
	searcher := search.NewSearcher(driver, gate, stores.All(), search.OptionsFromConfig(cfg.Search))

	// 5. Initialize The Engine
	coreService := service.NewService(searcher, resultCache, trackedStore, broker, cfg.Cache.TTL(), logger)

	// 6. Start the background refresh loop
	scheduler := service.NewScheduler(coreService, cfg.Scheduler, service.SystemClock{}, logger)
	go scheduler.Run(ctx)

	// 7. Initialize and Start The API Server
	apiServer := rest.NewServer(cfg.Server.Port, cfg.Server.AllowedOrigins, coreService, broker)
	go func() {
		logger.Info("API server starting", slog.String("port", cfg.Server.Port))
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("API server failed: %v", err)
		}
	}()

	// 8. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received, shutting down gracefully...")

	// Cancel the main context to stop the scheduler and in-flight searches
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server shut down successfully")
}
